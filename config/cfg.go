package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// CanvasConfig describes the root container the captions render into.
	CanvasConfig struct {
		Width       int `yaml:"width" validate:"min=64"`
		Height      int `yaml:"height" validate:"min=64"`
		CellColumns int `yaml:"cell_columns" validate:"min=1"`
		CellRows    int `yaml:"cell_rows" validate:"min=1"`
	}

	// ScalingConfig holds caller multipliers applied during style mapping.
	ScalingConfig struct {
		Size       float64 `yaml:"size" validate:"gt=0.0"`
		LineHeight float64 `yaml:"line_height" validate:"gt=0.0"`
		Opacity    float64 `yaml:"opacity" validate:"gte=0.0,lte=1.0"`
	}

	// StyleOverridesConfig carries user caption preferences superimposed on
	// document styling.
	StyleOverridesConfig struct {
		StylesheetPath   string            `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		FontFamily       string            `yaml:"font_family"`
		Colors           map[string]string `yaml:"colors"`
		BackgroundColors map[string]string `yaml:"background_colors"`
	}

	// PresentationConfig selects presentation behaviors.
	PresentationConfig struct {
		RollUp     bool `yaml:"roll_up"`
		ForcedOnly bool `yaml:"forced_only"`
	}

	DocumentConfig struct {
		OutputNameTemplate string               `yaml:"output_name_template"`
		Canvas             CanvasConfig         `yaml:"canvas"`
		Scaling            ScalingConfig        `yaml:"scaling"`
		Styles             StyleOverridesConfig `yaml:"styles"`
		Presentation       PresentationConfig   `yaml:"presentation"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

type TemplateFieldName string

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a
// byte slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
