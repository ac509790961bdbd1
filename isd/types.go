// Package isd models the Intermediate Synchronic Document: a fully
// resolved, time-sliced presentation tree for one instant of timed text.
// Every node carries computed (not cascaded) style attribute values, so no
// style resolution happens downstream of parsing.
package isd

import "fmt"

// Kind of an ISD node.
// ENUM(region, body, div, p, span, image, br)
type Kind int

const (
	KindRegion Kind = iota
	KindBody
	KindDiv
	KindP
	KindSpan
	KindImage
	KindBr
)

func (k Kind) String() string {
	switch k {
	case KindRegion:
		return "region"
	case KindBody:
		return "body"
	case KindDiv:
		return "div"
	case KindP:
		return "p"
	case KindSpan:
		return "span"
	case KindImage:
		return "image"
	case KindBr:
		return "br"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps an ISD element tag to its node kind.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "region":
		return KindRegion, nil
	case "body":
		return KindBody, nil
	case "div":
		return KindDiv, nil
	case "p":
		return KindP, nil
	case "span":
		return KindSpan, nil
	case "image":
		return KindImage, nil
	case "br":
		return KindBr, nil
	}
	return 0, fmt.Errorf("unknown ISD node kind %q", tag)
}

// Resolved style attribute names. Keys are the attribute local names; the
// originating namespace (tts, ebutts, itts, smpte) is dropped during
// parsing since resolved ISD attributes are unambiguous by local name.
const (
	StyleWritingMode    = "writingMode"
	StyleDirection      = "direction"
	StyleDisplay        = "display"
	StyleDisplayAlign   = "displayAlign"
	StyleTextAlign      = "textAlign"
	StyleColor          = "color"
	StyleBackground     = "backgroundColor"
	StyleFontFamily     = "fontFamily"
	StyleFontSize       = "fontSize"
	StyleFontStyle      = "fontStyle"
	StyleFontWeight     = "fontWeight"
	StyleLineHeight     = "lineHeight"
	StyleOpacity        = "opacity"
	StyleVisibility     = "visibility"
	StyleOrigin         = "origin"
	StyleExtent         = "extent"
	StylePadding        = "padding"
	StyleWrapOption     = "wrapOption"
	StyleUnicodeBidi    = "unicodeBidi"
	StyleTextDecoration = "textDecoration"
	StyleRuby           = "ruby"
	StyleRubyPosition   = "rubyPosition"
	StyleRubyReserve    = "rubyReserve"
	StyleTextEmphasis   = "textEmphasis"
	StyleLinePadding    = "linePadding"
	StyleMultiRowAlign  = "multiRowAlign"
	StyleFillLineGap    = "fillLineGap"
	StyleForcedDisplay  = "forcedDisplay"
)

// Node is one element of the resolved presentation tree.
type Node struct {
	Kind     Kind
	ID       string
	Styles   map[string]string
	Children []*Node
	Text     string // span text content
	Src      string // image source (data URI or relative reference)
}

// Style returns a resolved style attribute value, "" when absent.
func (n *Node) Style(name string) string {
	if n.Styles == nil {
		return ""
	}
	return n.Styles[name]
}

// Document is one ISD instant: the set of active regions with their
// rendered bodies, valid from Begin to End.
type Document struct {
	Begin, End float64 // seconds on the media timeline
	Regions    []*Node
}

// Sequence is an ordered list of ISD instants covering a presentation.
type Sequence struct {
	Lang      string
	Documents []*Document
}
