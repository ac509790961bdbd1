package debug

import (
	"strings"
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "root", nil, "root\n"},
		{"depth two", 2, "node %d", []any{7}, "    node 7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() produced %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tw := NewTreeWriter()
	tw.TextBlock(1, "text", "hello world")
	want := "  text: \"hello world\"\n"
	if got := tw.String(); got != want {
		t.Errorf("TextBlock() produced %q, want %q", got, want)
	}

	tw = NewTreeWriter()
	tw.TextBlock(0, "text", "")
	if got := tw.String(); got != "text: \n" {
		t.Errorf("TextBlock() with empty value produced %q", got)
	}
}

func TestTreeWriter_Attrs(t *testing.T) {
	tw := NewTreeWriter()
	tw.Attrs(1, map[string]string{"color": "#ffffffff", "font-size": "16"})
	want := "  [color=#ffffffff font-size=16]\n"
	if got := tw.String(); got != want {
		t.Errorf("Attrs() produced %q, want %q", got, want)
	}

	tw = NewTreeWriter()
	tw.Attrs(0, nil)
	if tw.String() != "" {
		t.Error("Attrs() with no attributes should write nothing")
	}
}

func TestTreeWriter_Accumulates(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "region")
	tw.Line(1, "p")
	tw.TextBlock(2, "text", "line")

	got := tw.String()
	if !strings.HasPrefix(got, "region\n  p\n") {
		t.Errorf("unexpected dump prefix: %q", got)
	}
	if strings.Count(got, "\n") != 3 {
		t.Errorf("expected 3 lines, got %q", got)
	}
}
