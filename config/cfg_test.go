package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"

	"sbc/common"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Export.Overwrite != common.OverwriteModeQuit {
		t.Errorf("Default overwrite = %s, want quit", cfg.Export.Overwrite)
	}
	if cfg.Export.WorksheetName != "BloomBook" {
		t.Errorf("Default worksheet = %q, want BloomBook", cfg.Export.WorksheetName)
	}
	if !slices.Contains(cfg.Export.MetadataKeys, "bookTitle") {
		t.Errorf("Default metadata keys %v do not include bookTitle", cfg.Export.MetadataKeys)
	}
	if cfg.Audio.Probe != common.AudioProbeBuiltin {
		t.Errorf("Default probe = %s, want builtin", cfg.Audio.Probe)
	}
	if cfg.Audio.CacheTTL != 10*time.Minute {
		t.Errorf("Default cache ttl = %v, want 10m", cfg.Audio.CacheTTL)
	}
	if !cfg.Import.InsertPages {
		t.Error("Default insert_pages = false, want true")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
export:
  overwrite: overwrite
  retain_markup: true
  metadata_keys: ["*"]
  copy_workers: 8
import:
  remove_other_languages: true
audio:
  probe: ffprobe
  ffprobe_path: /usr/bin/ffprobe
  cache_ttl: 1m
logging:
  console:
    level: normal
  file:
    level: debug
    destination: ` + filepath.Join(tmpDir, "test.log") + `
    mode: append
reporting:
  destination: ` + filepath.Join(tmpDir, "test-report.zip") + `
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Export.Overwrite != common.OverwriteModeOverwrite {
		t.Errorf("Overwrite = %s, want overwrite", cfg.Export.Overwrite)
	}
	if !cfg.Export.RetainMarkup {
		t.Error("Expected RetainMarkup to be true")
	}
	if !cfg.Export.ExportsAllMetadata() {
		t.Error("Expected wildcard metadata export")
	}
	if cfg.Export.CopyWorkers != 8 {
		t.Errorf("CopyWorkers = %d, want 8", cfg.Export.CopyWorkers)
	}
	if !cfg.Import.RemoveOtherLanguages {
		t.Error("Expected RemoveOtherLanguages to be true")
	}
	if cfg.Audio.Probe != common.AudioProbeFfprobe {
		t.Errorf("Probe = %s, want ffprobe", cfg.Audio.Probe)
	}
	if cfg.Audio.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v, want 1m", cfg.Audio.CacheTTL)
	}
	// values not present in the file come from defaults
	if cfg.Export.WorksheetName != "BloomBook" {
		t.Errorf("WorksheetName = %q, want default", cfg.Export.WorksheetName)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nexport:\n  retain_markup: true\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad enum", "version: 1\nexport:\n  overwrite: sometimes\n"},
		{"too many workers", "version: 1\nexport:\n  copy_workers: 100\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Export.Overwrite = common.OverwriteModeOverwrite

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Export.Overwrite != common.OverwriteModeOverwrite {
		t.Errorf("Overwrite mismatch after dump/load: got %s", cfg2.Export.Overwrite)
	}
	if cfg2.Audio.CacheTTL != cfg.Audio.CacheTTL {
		t.Errorf("CacheTTL mismatch after dump/load: got %v, want %v", cfg2.Audio.CacheTTL, cfg.Audio.CacheTTL)
	}
}

func TestExportsAllMetadata(t *testing.T) {
	conf := ExportConfig{MetadataKeys: []string{"bookTitle"}}
	if conf.ExportsAllMetadata() {
		t.Error("explicit list must not be wildcard")
	}
	conf.MetadataKeys = append(conf.MetadataKeys, "*")
	if !conf.ExportsAllMetadata() {
		t.Error("list with * must be wildcard")
	}
}
