package compose

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"ttxr/config"
	"ttxr/isd"
	"ttxr/state"
)

// Values holds variables we make available for output name template expansion.
type Values struct {
	Context string
	Source  string  // source file name without path and extension
	Frame   int     // frame ordinal within the sequence, starting at 0
	Begin   float64 // frame begin time, seconds
	End     float64 // frame end time, seconds
	Lang    string
	Format  string
}

// buildFramePath returns the output path for one frame snapshot. It uses
// either the default naming scheme or the user-defined template, cleaning
// and transliterating every path segment.
func buildFramePath(dst, src string, frame int, doc *isd.Document, lang string, env *state.LocalEnv) string {
	outDir := filepath.Join(dst, filepath.Dir(src))
	defaultFile := buildDefaultFileName(src, frame)

	if env.Cfg.Document.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	values := Values{
		Context: string(config.OutputNameTemplateFieldName),
		Source:  strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Frame:   frame,
		Begin:   doc.Begin,
		End:     doc.End,
		Lang:    lang,
		Format:  env.Format.String(),
	}
	expanded, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Document.OutputNameTemplate, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(outDir, defaultFile)
	}

	segments := strings.Split(filepath.ToSlash(expanded), "/")
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		seg = config.CleanFileName(slug.Make(seg))
		if i == len(segments)-1 {
			seg += ".xhtml"
		}
		parts = append(parts, seg)
	}
	return filepath.Join(parts...)
}

func buildDefaultFileName(src string, frame int) string {
	base := slug.Make(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))
	return fmt.Sprintf("%s-%05d.xhtml", config.CleanFileName(base), frame)
}

// buildBundlePath returns the output path of the zip bundle for a sequence.
func buildBundlePath(dst, label string) string {
	if strings.EqualFold(filepath.Ext(dst), config.OutputFmtBundle.Ext()) {
		return dst
	}
	base := slug.Make(strings.TrimSuffix(filepath.Base(label), filepath.Ext(label)))
	return filepath.Join(dst, config.CleanFileName(base)+config.OutputFmtBundle.Ext())
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("template field %s expanded to nothing", name)
	}
	return buf.String(), nil
}
