package render

import (
	"fmt"

	"ttxr/utils/debug"
)

// DumpTree renders the box tree with resolved properties and measured
// geometry into an indented text form for the debug report.
func DumpTree(root *Box, geo GeometryProvider) string {
	tw := debug.NewTreeWriter()
	dumpBox(tw, root, geo, 0)
	return tw.String()
}

func dumpBox(tw *debug.TreeWriter, b *Box, geo GeometryProvider, depth int) {
	head := b.Kind.String()
	if b.ID != "" {
		head += " #" + b.ID
	}
	if b.Ruby != RubyNone {
		head += " ruby:" + b.Ruby.String()
	}
	if b.Forced {
		head += " forced"
	}
	tw.Line(depth, "%s", head)

	if g := b.Geometry; g != nil {
		tw.Line(depth+1, "geometry: %.1f,%.1f %.1fx%.1f padding=%v", g.X, g.Y, g.W, g.H, g.Padding)
	}
	if b.Leaf() && geo != nil {
		r := geo.Measure(b)
		if !r.Empty() {
			tw.Line(depth+1, "rect: %.1f,%.1f %.1fx%.1f", r.Left, r.Top, r.Width(), r.Height())
		}
	}

	if len(b.Props) > 0 {
		attrs := make(map[string]string, len(b.Props))
		for p, v := range b.Props {
			attrs[string(p)] = fmt.Sprintf("%v", v)
		}
		tw.Attrs(depth+1, attrs)
	}
	for _, a := range b.Animations {
		tw.Line(depth+1, "animate %s: %v -> %v over %.2fs", a.Prop, a.From, a.To, a.Duration)
	}
	if b.Text != "" {
		tw.TextBlock(depth+1, "text", b.Text)
	}
	if b.Src != "" {
		tw.TextBlock(depth+1, "src", b.Src)
	}
	for _, c := range b.Children {
		dumpBox(tw, c, geo, depth+1)
	}
}
