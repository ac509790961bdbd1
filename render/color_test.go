package render

import "testing"

func TestParseColorValues(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ffffff", White, false},
		{"#FFFFFF", White, false},
		{"#00000000", Transparent, false},
		{"#ff000080", Color{255, 0, 0, 128}, false},
		{"rgb(1,2,3)", Color{1, 2, 3, 255}, false},
		{"rgba(1, 2, 3, 4)", Color{1, 2, 3, 4}, false},
		{"white", White, false},
		{"Yellow", Color{255, 255, 0, 255}, false},
		{"transparent", Transparent, false},
		{"", Color{}, true},
		{"#fff", Color{}, true},
		{"#zzzzzz", Color{}, true},
		{"rgb(1,2)", Color{}, true},
		{"rgb(1,2,300)", Color{}, true},
		{"rgba(1,2,3)", Color{}, true},
		{"chartreuse4", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorString(t *testing.T) {
	if s := (Color{255, 0, 0, 128}).String(); s != "#ff000080" {
		t.Errorf("String() = %q", s)
	}
	// round trip through the parser
	c := Color{1, 2, 3, 4}
	back, err := ParseColor(c.String())
	if err != nil {
		t.Fatalf("ParseColor(String()) error = %v", err)
	}
	if back != c {
		t.Errorf("round trip = %v, want %v", back, c)
	}
}

func TestScaleAlpha(t *testing.T) {
	c := Color{10, 20, 30, 200}
	if got := c.ScaleAlpha(0.5); got.A != 100 {
		t.Errorf("ScaleAlpha(0.5).A = %d, want 100", got.A)
	}
	if got := c.ScaleAlpha(2); got.A != 200 {
		t.Errorf("ScaleAlpha(2).A = %d, clamp failed", got.A)
	}
	if got := c.ScaleAlpha(-1); got.A != 0 {
		t.Errorf("ScaleAlpha(-1).A = %d, clamp failed", got.A)
	}
	if !(Color{1, 2, 3, 0}).IsTransparent() {
		t.Error("IsTransparent() = false for zero alpha")
	}
}
