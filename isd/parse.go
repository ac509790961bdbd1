package isd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// XML parsing for ISD documents and sequences. Similar to TTML, the format
// is attribute heavy: every element carries its computed style values. We
// parse exhaustively and complain loudly so malformed upstream resolver
// output is visible instead of silently skewing presentation.

// Parse reads a single ISD document or a sequence of them from r. A root
// <isd> element yields a one-document sequence; a root <sequence> may hold
// any number of <isd> children.
func Parse(r io.Reader, log *zap.Logger) (*Sequence, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read ISD document: %w", err)
	}
	return ParseXML(doc, log)
}

// ParseXML walks an already loaded etree DOM.
func ParseXML(doc *etree.Document, log *zap.Logger) (*Sequence, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	switch root.Tag {
	case "isd":
		d, err := parseDocument(root, log)
		if err != nil {
			return nil, err
		}
		return &Sequence{Lang: attr(root, "lang"), Documents: []*Document{d}}, nil
	case "sequence":
		seq := &Sequence{Lang: attr(root, "lang")}
		for _, child := range root.ChildElements() {
			if child.Tag != "isd" {
				log.Warn("Unexpected element in ISD sequence, skipping", zap.String("tag", child.Tag))
				continue
			}
			d, err := parseDocument(child, log)
			if err != nil {
				return nil, fmt.Errorf("isd instant %d: %w", len(seq.Documents), err)
			}
			seq.Documents = append(seq.Documents, d)
		}
		return seq, nil
	}
	return nil, fmt.Errorf("unexpected root element %q", root.Tag)
}

func parseDocument(e *etree.Element, log *zap.Logger) (*Document, error) {
	d := &Document{}

	var err error
	if v := attr(e, "begin"); v != "" {
		if d.Begin, err = parseTime(v); err != nil {
			return nil, fmt.Errorf("begin: %w", err)
		}
	}
	if v := attr(e, "end"); v != "" {
		if d.End, err = parseTime(v); err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
	}

	for _, child := range e.ChildElements() {
		if child.Tag != "region" {
			log.Warn("Unexpected element in ISD instant, skipping", zap.String("tag", child.Tag))
			continue
		}
		n, err := parseNode(child, log)
		if err != nil {
			return nil, err
		}
		if n != nil {
			d.Regions = append(d.Regions, n)
		}
	}
	return d, nil
}

// parseNode builds one presentation node. Unknown kinds are reported and
// the whole subtree is dropped; siblings keep rendering.
func parseNode(e *etree.Element, log *zap.Logger) (*Node, error) {
	kind, err := ParseKind(e.Tag)
	if err != nil {
		log.Error("Skipping unrenderable ISD subtree", zap.String("tag", e.Tag))
		return nil, nil
	}

	n := &Node{Kind: kind, Styles: map[string]string{}}
	for _, a := range e.Attr {
		switch a.Key {
		case "id":
			n.ID = a.Value
		case "src":
			n.Src = a.Value
		case "begin", "end", "lang", "space":
		default:
			// any namespaced attribute is a resolved style value
			n.Styles[a.Key] = a.Value
		}
	}

	switch kind {
	case KindSpan, KindP:
		// mixed content: character data interleaved with nested spans and
		// breaks. Bare text inside <p> becomes an anonymous span; whitespace
		// runs between paragraph children are formatting and get dropped.
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				txt := t.Data
				if txt == "" || (kind == KindP && strings.TrimSpace(txt) == "") {
					continue
				}
				n.Children = append(n.Children, &Node{Kind: KindSpan, Text: txt, Styles: map[string]string{}})
			case *etree.Element:
				c, err := parseNode(t, log)
				if err != nil {
					return nil, err
				}
				if c != nil {
					n.Children = append(n.Children, c)
				}
			}
		}
		// collapse the single-text case so plain spans carry their text directly
		if kind == KindSpan && len(n.Children) == 1 && n.Children[0].Text != "" && len(n.Children[0].Styles) == 0 {
			n.Text = n.Children[0].Text
			n.Children = nil
		}
	case KindBr, KindImage:
		// no renderable content
	default:
		for _, child := range e.ChildElements() {
			c, err := parseNode(child, log)
			if err != nil {
				return nil, err
			}
			if c != nil {
				n.Children = append(n.Children, c)
			}
		}
	}
	return n, nil
}

func attr(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// parseTime accepts clock time (hh:mm:ss.fff) and offset time (12.5s, 300ms)
// expressions, returning seconds.
func parseTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return 0, fmt.Errorf("bad clock time %q", s)
		}
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("bad clock time %q: %w", s, err)
		}
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("bad clock time %q: %w", s, err)
		}
		sec, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, fmt.Errorf("bad clock time %q: %w", s, err)
		}
		return float64(h*3600+m*60) + sec, nil
	}
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "ms"):
		mult, s = 0.001, strings.TrimSuffix(s, "ms")
	case strings.HasSuffix(s, "s"):
		s = strings.TrimSuffix(s, "s")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad time expression %q: %w", s, err)
	}
	return v * mult, nil
}
