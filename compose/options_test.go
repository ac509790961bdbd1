package compose

import (
	"testing"

	"go.uber.org/zap"

	"ttxr/config"
	"ttxr/render"
)

func documentConfig(t *testing.T) *config.DocumentConfig {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	return &cfg.Document
}

func TestBuildOptions(t *testing.T) {
	dc := documentConfig(t)
	dc.Canvas.Width, dc.Canvas.Height = 1920, 1080
	dc.Scaling.Size = 1.5
	dc.Presentation.RollUp = true
	dc.Styles.Colors = map[string]string{"#ffffff": "#ffff00"}
	dc.Styles.BackgroundColors = map[string]string{"bad": "#000000", "#000000": "also bad"}

	opts := buildOptions(dc, nil, zap.NewNop())

	if opts.RootW != 1920 || opts.RootH != 1080 {
		t.Errorf("canvas = %v x %v", opts.RootW, opts.RootH)
	}
	if opts.CellCols != 32 || opts.CellRows != 15 {
		t.Errorf("cell resolution = %d x %d", opts.CellCols, opts.CellRows)
	}
	if opts.SizeMultiplier != 1.5 {
		t.Errorf("size multiplier = %v", opts.SizeMultiplier)
	}
	if !opts.RollUpEnabled {
		t.Error("roll-up not carried over")
	}

	white := render.Color{R: 255, G: 255, B: 255, A: 255}
	yellow := render.Color{R: 255, G: 255, B: 0, A: 255}
	if got := opts.ColorMap[white]; got != yellow {
		t.Errorf("color map = %v", got)
	}
	// malformed substitutions are dropped, not fatal
	if len(opts.BackgroundColorMap) != 0 {
		t.Errorf("background map = %v", opts.BackgroundColorMap)
	}
}

func TestBuildOptionsStylesheet(t *testing.T) {
	dc := documentConfig(t)
	sheet := []byte(`
* { font-family: "Noto Sans"; }
[color="#ffffff"] { color: #00ff00; }
[background-color="#000000"] { background-color: #202020; }
`)

	opts := buildOptions(dc, sheet, zap.NewNop())

	if opts.FontFamilyOverride != "Noto Sans" {
		t.Errorf("font family = %q", opts.FontFamilyOverride)
	}
	white := render.Color{R: 255, G: 255, B: 255, A: 255}
	if got := opts.ColorMap[white]; got != (render.Color{R: 0, G: 255, B: 0, A: 255}) {
		t.Errorf("color override = %v", got)
	}
	black := render.Color{R: 0, G: 0, B: 0, A: 255}
	if got := opts.BackgroundColorMap[black]; got != (render.Color{R: 0x20, G: 0x20, B: 0x20, A: 255}) {
		t.Errorf("background override = %v", got)
	}
}

func TestBuildOptionsConfigWinsOverStylesheet(t *testing.T) {
	dc := documentConfig(t)
	dc.Styles.FontFamily = "Configured"
	dc.Styles.Colors = map[string]string{"#ffffff": "#ff00ff"}

	sheet := []byte(`
* { font-family: FromSheet; }
[color="#ffffff"] { color: #00ff00; }
`)
	opts := buildOptions(dc, sheet, zap.NewNop())

	if opts.FontFamilyOverride != "Configured" {
		t.Errorf("font family = %q, configuration must win", opts.FontFamilyOverride)
	}
	white := render.Color{R: 255, G: 255, B: 255, A: 255}
	if got := opts.ColorMap[white]; got != (render.Color{R: 255, G: 0, B: 255, A: 255}) {
		t.Errorf("color override = %v, configuration must win", got)
	}
}
