package compose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"ttxr/render"
	"ttxr/utils/images"
)

// resolveFunc loads referenced image data by the src value of an ISD image
// node. nil when the sequence source cannot serve references.
type resolveFunc func(src string) ([]byte, error)

// snapshotXHTML serializes one rendered frame into a standalone XHTML
// document: region divs positioned on the canvas, leaves placed at their
// measured rects, all visual properties inlined.
func snapshotXHTML(frame *render.Frame, geo render.GeometryProvider, title string, resolve resolveFunc, log *zap.Logger) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")

	head := html.CreateElement("head")
	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")
	titleElem := head.CreateElement("title")
	titleElem.SetText(title)

	body := html.CreateElement("body")
	for _, region := range frame.Root.Children {
		if region.Kind != render.KindRegion {
			continue
		}
		appendBox(body, region, geo, resolve, log)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func appendBox(parent *etree.Element, b *render.Box, geo render.GeometryProvider, resolve resolveFunc, log *zap.Logger) {
	var e *etree.Element
	switch b.Kind {
	case render.KindText:
		e = parent.CreateElement("span")
		e.SetText(b.Text)
	case render.KindBreak:
		parent.CreateElement("br")
		return
	case render.KindImage:
		e = parent.CreateElement("img")
		embedImage(e, b, geo, resolve, log)
	case render.KindSpan:
		e = parent.CreateElement("span")
	default:
		e = parent.CreateElement("div")
	}

	e.CreateAttr("class", b.Kind.String())
	if b.ID != "" {
		e.CreateAttr("id", b.ID)
	}
	if b.Ruby != render.RubyNone {
		e.CreateAttr("data-ruby", b.Ruby.String())
	}
	if style := inlineStyle(b, geo); style != "" {
		e.CreateAttr("style", style)
	}
	if len(b.Animations) > 0 {
		specs := make([]string, 0, len(b.Animations))
		for _, a := range b.Animations {
			specs = append(specs, fmt.Sprintf("%s:%v:%v:%.2fs", a.Prop, a.From, a.To, a.Duration))
		}
		e.CreateAttr("data-animate", strings.Join(specs, " "))
	}

	for _, c := range b.Children {
		appendBox(e, c, geo, resolve, log)
	}
}

// inlineStyle renders the box property set as a CSS inline style in stable
// order. Regions and leaves also carry absolute placement.
func inlineStyle(b *render.Box, geo render.GeometryProvider) string {
	decls := make([]string, 0, len(b.Props)+4)

	if g := b.Geometry; g != nil {
		decls = append(decls,
			"position:absolute",
			fmt.Sprintf("left:%.1fpx", g.X),
			fmt.Sprintf("top:%.1fpx", g.Y),
			fmt.Sprintf("width:%.1fpx", g.W),
			fmt.Sprintf("height:%.1fpx", g.H),
			fmt.Sprintf("padding:%.1fpx %.1fpx %.1fpx %.1fpx", g.Padding[0], g.Padding[1], g.Padding[2], g.Padding[3]))
	} else if b.Leaf() && geo != nil {
		if r := geo.Measure(b); !r.Empty() {
			decls = append(decls,
				"position:absolute",
				fmt.Sprintf("left:%.1fpx", r.Left),
				fmt.Sprintf("top:%.1fpx", r.Top),
				fmt.Sprintf("width:%.1fpx", r.Width()),
				fmt.Sprintf("height:%.1fpx", r.Height()))
		}
	}

	props := make([]string, 0, len(b.Props))
	for p := range b.Props {
		props = append(props, string(p))
	}
	sort.Strings(props)
	for _, p := range props {
		decls = append(decls, p+":"+cssValue(b.Props[render.Prop(p)]))
	}
	return strings.Join(decls, ";")
}

func cssValue(v any) string {
	switch t := v.(type) {
	case render.Color:
		return t.String()
	case render.Border:
		return fmt.Sprintf("%.1fpx solid %s", t.Width, t.Color)
	case float64:
		return fmt.Sprintf("%.1fpx", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func embedImage(e *etree.Element, b *render.Box, geo render.GeometryProvider, resolve resolveFunc, log *zap.Logger) {
	if resolve == nil {
		log.Warn("Skipping image, source cannot resolve references", zap.String("src", b.Src))
		e.CreateAttr("alt", b.Src)
		return
	}
	data, err := resolve(b.Src)
	if err != nil {
		log.Warn("Skipping unreadable image", zap.String("src", b.Src), zap.Error(err))
		e.CreateAttr("alt", b.Src)
		return
	}
	r := geo.Measure(b)
	w, h := int(r.Width()), int(r.Height())
	if w <= 0 || h <= 0 {
		w, h = 1920, 1080
	}
	prepared, err := images.Prepare(data, w, h, log)
	if err != nil {
		log.Warn("Skipping undecodable image", zap.String("src", b.Src), zap.Error(err))
		e.CreateAttr("alt", b.Src)
		return
	}
	e.CreateAttr("src", images.DataURI(prepared))
}
