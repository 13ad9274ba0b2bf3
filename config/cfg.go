package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"sbc/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ExportConfig struct {
		Overwrite             common.OverwriteMode `yaml:"overwrite" validate:"gte=0"`
		RetainMarkup          bool                 `yaml:"retain_markup"`
		OutputNameTemplate    string               `yaml:"output_name_template"`
		FileNameTransliterate bool                 `yaml:"file_name_transliterate"`
		WorksheetName         string               `yaml:"worksheet_name" validate:"required,max=31"`
		MetadataKeys          []string             `yaml:"metadata_keys" validate:"dive,required"`
		CopyWorkers           int                  `yaml:"copy_workers" validate:"min=1,max=32"`
	}

	ImportConfig struct {
		RemoveOtherLanguages bool   `yaml:"remove_other_languages"`
		KeepBackup           bool   `yaml:"keep_backup"`
		PageTemplatesPath    string `yaml:"page_templates_path" sanitize:"path_clean" validate:"omitempty,dir"`
		DefaultLanguage      string `yaml:"default_language" validate:"required"`
		InsertPages          bool   `yaml:"insert_pages"`
		CopyWorkers          int    `yaml:"copy_workers" validate:"min=1,max=32"`
	}

	AudioConfig struct {
		Probe       common.AudioProbe `yaml:"probe" validate:"gte=0"`
		FFProbePath string            `yaml:"ffprobe_path" validate:"required_if=Probe 1"`
		CacheTTL    time.Duration     `yaml:"cache_ttl" validate:"gte=0"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Export    ExportConfig   `yaml:"export"`
		Import    ImportConfig   `yaml:"import"`
		Audio     AudioConfig    `yaml:"audio"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

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
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
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

// Prepare generates configuration file from template and returns it as a byte
// slice.
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

// ExportsAllMetadata reports whether metadata allow-list is a wildcard.
func (conf *ExportConfig) ExportsAllMetadata() bool {
	for _, k := range conf.MetadataKeys {
		if k == "*" {
			return true
		}
	}
	return false
}
