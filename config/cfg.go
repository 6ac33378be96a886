package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ServerConfig struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port" validate:"min=1,max=65535"`
		ReadTimeoutSec  int    `yaml:"read_timeout_sec" validate:"min=1"`
		WriteTimeoutSec int    `yaml:"write_timeout_sec" validate:"min=1"`
	}

	CatalogConfig struct {
		TemplatesDir   string   `yaml:"templates_dir,omitempty" sanitize:"path_clean"`
		ImagesDir      string   `yaml:"images_dir,omitempty" sanitize:"path_clean"`
		Exclude        []string `yaml:"exclude"`
		ThumbnailWidth int      `yaml:"thumbnail_width" validate:"min=16,max=2048"`
	}

	// RegionHint is optional fallback styling for a single text region. Any
	// attribute left unset here never touches the generated runs; attributes
	// already provided by the template always win over the hint.
	RegionHint struct {
		Color  string `yaml:"color,omitempty" validate:"omitempty,hexcolor"`
		Font   string `yaml:"font,omitempty"`
		Size   int    `yaml:"size,omitempty" validate:"omitempty,min=1,max=999"`
		Bold   *bool  `yaml:"bold,omitempty"`
		Italic *bool  `yaml:"italic,omitempty"`
	}

	TemplateHints struct {
		Top    *RegionHint `yaml:"top,omitempty"`
		Bottom *RegionHint `yaml:"bottom,omitempty"`
	}

	DeckConfig struct {
		WordsPerLine          int                      `yaml:"words_per_line" validate:"min=1,max=100"`
		FixZip                bool                     `yaml:"fix_zip"`
		FileNameTransliterate bool                     `yaml:"file_name_transliterate"`
		WorkDir               string                   `yaml:"work_dir,omitempty" sanitize:"path_clean"`
		Formats               map[string]TemplateHints `yaml:"formats"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Server    ServerConfig   `yaml:"server"`
		Catalog   CatalogConfig  `yaml:"catalog"`
		Deck      DeckConfig     `yaml:"deck"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// HintsFor returns format hints for a template selected by its base file name.
// Lookup is case-insensitive, missing entry produces empty hints.
func (conf *DeckConfig) HintsFor(templateBase string) TemplateHints {
	for key, hints := range conf.Formats {
		if strings.EqualFold(key, templateBase) {
			return hints
		}
	}
	return TemplateHints{}
}

// Excluded reports whether template or image base name is never to be offered
// or accepted.
func (conf *CatalogConfig) Excluded(base string) bool {
	for _, name := range conf.Exclude {
		if strings.EqualFold(name, base) {
			return true
		}
	}
	return false
}

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
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
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

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
