package compose

import (
	"go.uber.org/zap"

	"ttxr/config"
	"ttxr/css"
	"ttxr/render"
)

// buildOptions assembles renderer options from the document configuration
// and the optional user override sheet. Explicit configuration entries win
// over the sheet.
func buildOptions(cfg *config.DocumentConfig, stylesheet []byte, log *zap.Logger) render.Options {
	opts := render.Options{
		RootW:                float64(cfg.Canvas.Width),
		RootH:                float64(cfg.Canvas.Height),
		CellCols:             cfg.Canvas.CellColumns,
		CellRows:             cfg.Canvas.CellRows,
		SizeMultiplier:       cfg.Scaling.Size,
		LineHeightMultiplier: cfg.Scaling.LineHeight,
		OpacityMultiplier:    cfg.Scaling.Opacity,
		FontFamilyOverride:   cfg.Styles.FontFamily,
		ForcedOnly:           cfg.Presentation.ForcedOnly,
		RollUpEnabled:        cfg.Presentation.RollUp,
	}

	if len(stylesheet) > 0 {
		ov := css.NewParser(log).Parse(stylesheet)
		ov.Apply(&opts)
		if cfg.Styles.FontFamily != "" {
			opts.FontFamilyOverride = cfg.Styles.FontFamily
		}
	}

	if opts.ColorMap == nil {
		opts.ColorMap = make(map[render.Color]render.Color)
	}
	if opts.BackgroundColorMap == nil {
		opts.BackgroundColorMap = make(map[render.Color]render.Color)
	}
	mergeColorMap(opts.ColorMap, cfg.Styles.Colors, "color", log)
	mergeColorMap(opts.BackgroundColorMap, cfg.Styles.BackgroundColors, "background color", log)
	return opts
}

func mergeColorMap(dst map[render.Color]render.Color, src map[string]string, what string, log *zap.Logger) {
	for k, v := range src {
		from, err := render.ParseColor(k)
		if err != nil {
			log.Warn("Ignoring bad "+what+" substitution", zap.String("from", k), zap.Error(err))
			continue
		}
		to, err := render.ParseColor(v)
		if err != nil {
			log.Warn("Ignoring bad "+what+" substitution", zap.String("to", v), zap.Error(err))
			continue
		}
		dst[from] = to
	}
}
