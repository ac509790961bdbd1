// Package css parses the user style override sheet - a small CSS subset
// that lets viewers substitute caption colors and fonts:
//
//	[color="#ffffff"]            { color: #ffff00; }
//	[background-color="black"]   { background-color: rgba(0, 0, 0, 128); }
//	*                            { font-family: "Noto Sans"; }
package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"ttxr/render"
)

// Overrides is the parsed override sheet in the form the renderer consumes.
type Overrides struct {
	FontFamily       string
	Colors           map[render.Color]render.Color
	BackgroundColors map[render.Color]render.Color
}

// Apply transfers parsed overrides into renderer options.
func (o *Overrides) Apply(opts *render.Options) {
	if o == nil {
		return
	}
	opts.FontFamilyOverride = o.FontFamily
	opts.ColorMap = o.Colors
	opts.BackgroundColorMap = o.BackgroundColors
}

// Parser parses override sheets.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new override sheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css")}
}

type selKind int

const (
	selNone selKind = iota
	selUniversal
	selColor
	selBackground
)

type selector struct {
	kind selKind
	from render.Color
}

// Parse parses an override sheet. Rules it does not understand are
// logged and skipped, the rest of the sheet is still honored.
func (p *Parser) Parse(data []byte) *Overrides {
	ov := &Overrides{
		Colors:           make(map[render.Color]render.Color),
		BackgroundColors: make(map[render.Color]render.Color),
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	var (
		sel     selector
		atDepth int
	)
	for {
		gt, _, tdata := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				p.log.Warn("Override sheet parse error", zap.Error(err))
			}
			return ov

		case css.BeginAtRuleGrammar:
			atDepth++
			p.log.Debug("Skipping at-rule", zap.String("rule", string(tdata)))
		case css.EndAtRuleGrammar:
			if atDepth > 0 {
				atDepth--
			}
		case css.AtRuleGrammar:
			p.log.Debug("Skipping at-rule", zap.String("rule", string(tdata)))

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			if atDepth == 0 {
				sel = p.parseSelector(parser.Values())
			}
		case css.EndRulesetGrammar:
			sel = selector{}

		case css.DeclarationGrammar:
			if atDepth == 0 {
				p.apply(ov, sel, string(tdata), parser.Values())
			}
		}
	}
}

func (p *Parser) parseSelector(tokens []css.Token) selector {
	var parts []string
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			continue
		}
		parts = append(parts, string(t.Data))
	}
	raw := strings.Join(parts, "")

	if raw == "*" {
		return selector{kind: selUniversal}
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		attr, val, ok := strings.Cut(raw[1:len(raw)-1], "=")
		if ok {
			from, err := render.ParseColor(unquote(val))
			if err != nil {
				p.log.Warn("Ignoring selector with bad color", zap.String("selector", raw), zap.Error(err))
				return selector{}
			}
			switch attr {
			case "color":
				return selector{kind: selColor, from: from}
			case "background-color":
				return selector{kind: selBackground, from: from}
			}
		}
	}
	p.log.Warn("Ignoring unsupported selector", zap.String("selector", raw))
	return selector{}
}

func (p *Parser) apply(ov *Overrides, sel selector, prop string, tokens []css.Token) {
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			continue
		}
		sb.Write(t.Data)
	}
	val := sb.String()

	switch {
	case sel.kind == selUniversal && prop == "font-family":
		ov.FontFamily = unquote(val)
	case sel.kind == selColor && prop == "color":
		to, err := render.ParseColor(val)
		if err != nil {
			p.log.Warn("Ignoring bad color override", zap.String("value", val), zap.Error(err))
			return
		}
		ov.Colors[sel.from] = to
	case sel.kind == selBackground && prop == "background-color":
		to, err := render.ParseColor(val)
		if err != nil {
			p.log.Warn("Ignoring bad background override", zap.String("value", val), zap.Error(err))
			return
		}
		ov.BackgroundColors[sel.from] = to
	case sel.kind == selNone:
		// selector was already reported
	default:
		p.log.Warn("Ignoring unsupported declaration", zap.String("property", prop), zap.String("value", val))
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
