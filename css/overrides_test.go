package css

import (
	"testing"

	"go.uber.org/zap"

	"ttxr/render"
)

func mustColor(t *testing.T, s string) render.Color {
	t.Helper()
	c, err := render.ParseColor(s)
	if err != nil {
		t.Fatalf("ParseColor(%q) error = %v", s, err)
	}
	return c
}

func TestParseOverrides(t *testing.T) {
	sheet := `
/* viewer preferences */
[color="#ffffff"] { color: #ffff00; }
[background-color="black"] { background-color: rgba(0, 0, 0, 128); }
* { font-family: "Noto Sans"; }
`
	ov := NewParser(zap.NewNop()).Parse([]byte(sheet))

	if ov.FontFamily != "Noto Sans" {
		t.Errorf("FontFamily = %q, want %q", ov.FontFamily, "Noto Sans")
	}

	from := mustColor(t, "#ffffff")
	if to, ok := ov.Colors[from]; !ok {
		t.Error("color substitution for #ffffff missing")
	} else if want := mustColor(t, "#ffff00"); to != want {
		t.Errorf("color substitution = %v, want %v", to, want)
	}

	bfrom := mustColor(t, "black")
	if to, ok := ov.BackgroundColors[bfrom]; !ok {
		t.Error("background substitution for black missing")
	} else if want := mustColor(t, "rgba(0,0,0,128)"); to != want {
		t.Errorf("background substitution = %v, want %v", to, want)
	}
}

func TestParseOverridesSkipsUnsupported(t *testing.T) {
	sheet := `
p { color: red; }
[color="#ffffff"] { font-size: 200%; }
[color="nonsense"] { color: red; }
@media screen { [color="#000000"] { color: red; } }
[color="#00ff00"] { color: #00aa00; }
`
	ov := NewParser(zap.NewNop()).Parse([]byte(sheet))

	if len(ov.Colors) != 1 {
		t.Fatalf("len(Colors) = %d, want 1", len(ov.Colors))
	}
	if to := ov.Colors[mustColor(t, "#00ff00")]; to != mustColor(t, "#00aa00") {
		t.Errorf("surviving substitution = %v, want #00aa00", to)
	}
	if ov.FontFamily != "" {
		t.Errorf("FontFamily = %q, want empty", ov.FontFamily)
	}
	if len(ov.BackgroundColors) != 0 {
		t.Errorf("len(BackgroundColors) = %d, want 0", len(ov.BackgroundColors))
	}
}

func TestParseOverridesEmpty(t *testing.T) {
	ov := NewParser(nil).Parse(nil)
	if ov == nil {
		t.Fatal("Parse(nil) returned nil")
	}
	if len(ov.Colors) != 0 || len(ov.BackgroundColors) != 0 || ov.FontFamily != "" {
		t.Error("expected empty overrides")
	}
}

func TestOverridesApply(t *testing.T) {
	ov := NewParser(zap.NewNop()).Parse([]byte(`* { font-family: Monospace; }`))

	var opts render.Options
	ov.Apply(&opts)

	if opts.FontFamilyOverride != "Monospace" {
		t.Errorf("FontFamilyOverride = %q, want %q", opts.FontFamilyOverride, "Monospace")
	}
	if opts.ColorMap == nil || opts.BackgroundColorMap == nil {
		t.Error("expected substitution maps to be set")
	}
}
