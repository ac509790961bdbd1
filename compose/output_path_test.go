package compose

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"ttxr/config"
	"ttxr/isd"
	"ttxr/state"
)

func testEnv(t *testing.T, tmpl string) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Document.OutputNameTemplate = tmpl
	return &state.LocalEnv{
		Cfg:    cfg,
		Log:    zap.NewNop(),
		Format: config.OutputFmtXhtml,
	}
}

func TestBuildFramePathDefault(t *testing.T) {
	env := testEnv(t, "")
	doc := &isd.Document{Begin: 1, End: 2}

	got := buildFramePath("out", "Captions Episode 1.ttml", 3, doc, "en", env)
	want := filepath.Join("out", "captions-episode-1-00003.xhtml")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestBuildFramePathKeepsSourceDir(t *testing.T) {
	env := testEnv(t, "")
	doc := &isd.Document{}

	got := buildFramePath("out", filepath.Join("disc1", "track.xml"), 0, doc, "", env)
	want := filepath.Join("out", "disc1", "track-00000.xhtml")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestBuildFramePathTemplate(t *testing.T) {
	env := testEnv(t, `{{ .Lang }}/{{ .Source }}-{{ printf "%05d" .Frame }}`)
	doc := &isd.Document{Begin: 1.5, End: 3}

	got := buildFramePath("out", "track.ttml", 7, doc, "ja", env)
	want := filepath.Join("out", "ja", "track-00007.xhtml")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestBuildFramePathTemplateValues(t *testing.T) {
	env := testEnv(t, `{{ .Format }}-{{ .Begin }}-{{ .End }}`)
	doc := &isd.Document{Begin: 1.5, End: 3}

	got := buildFramePath("", "track.ttml", 0, doc, "", env)
	want := "xhtml-1-5-3.xhtml"
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestBuildFramePathBadTemplate(t *testing.T) {
	// expansion failure falls back to the default scheme
	for _, tmpl := range []string{`{{ .Bogus }}`, `{{ if .Frame }}{{ end }}`} {
		env := testEnv(t, tmpl)
		got := buildFramePath("out", "track.ttml", 1, &isd.Document{}, "", env)
		want := filepath.Join("out", "track-00001.xhtml")
		if got != want {
			t.Errorf("template %q: path = %q, want %q", tmpl, got, want)
		}
	}
}

func TestBuildDefaultFileName(t *testing.T) {
	tests := []struct {
		src   string
		frame int
		want  string
	}{
		{"track.ttml", 0, "track-00000.xhtml"},
		{"My Show.xml", 12, "my-show-00012.xhtml"},
		{filepath.Join("dir", "a b.xml"), 1, "a-b-00001.xhtml"},
	}
	for _, tc := range tests {
		if got := buildDefaultFileName(tc.src, tc.frame); got != tc.want {
			t.Errorf("buildDefaultFileName(%q, %d) = %q, want %q", tc.src, tc.frame, got, tc.want)
		}
	}
}

func TestBuildBundlePath(t *testing.T) {
	tests := []struct {
		dst, label, want string
	}{
		{filepath.Join("out", "my.zip"), "whatever", filepath.Join("out", "my.zip")},
		{filepath.Join("out", "MY.ZIP"), "whatever", filepath.Join("out", "MY.ZIP")},
		{"out", "Episode 1.ttml", filepath.Join("out", "episode-1.zip")},
		{"out", filepath.Join("disc", "captions"), filepath.Join("out", "captions.zip")},
	}
	for _, tc := range tests {
		if got := buildBundlePath(tc.dst, tc.label); got != tc.want {
			t.Errorf("buildBundlePath(%q, %q) = %q, want %q", tc.dst, tc.label, got, tc.want)
		}
	}
}
