package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfiguration(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("unable to load default configuration: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("version = %d", cfg.Version)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Deck.WordsPerLine != 5 {
		t.Errorf("default words_per_line = %d", cfg.Deck.WordsPerLine)
	}
	if !cfg.Deck.FixZip {
		t.Errorf("fix_zip should default to true")
	}
	if !cfg.Catalog.Excluded("quran") || !cfg.Catalog.Excluded("QURAN") {
		t.Errorf("quran should be excluded by default")
	}
	if cfg.Catalog.Excluded("marsiya") {
		t.Errorf("marsiya should not be excluded")
	}

	hints := cfg.Deck.HintsFor("Marsiya")
	if hints.Top == nil || hints.Top.Color != "#ffc000" || hints.Top.Font != "Open Sans" || hints.Top.Size != 54 {
		t.Errorf("marsiya top hints wrong: %+v", hints.Top)
	}
	if hints.Bottom == nil || hints.Bottom.Size != 40 {
		t.Errorf("marsiya bottom hints wrong: %+v", hints.Bottom)
	}
	if empty := cfg.Deck.HintsFor("unknown"); empty.Top != nil || empty.Bottom != nil {
		t.Errorf("unknown template should have no hints")
	}
}

func TestConfigurationFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deckgen.yaml")
	data := `
server:
  port: 9999
deck:
  words_per_line: 3
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("unable to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("unable to load configuration: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port override lost: %d", cfg.Server.Port)
	}
	if cfg.Deck.WordsPerLine != 3 {
		t.Errorf("words_per_line override lost: %d", cfg.Deck.WordsPerLine)
	}
	// untouched values keep their defaults
	if cfg.Server.ReadTimeoutSec != 30 {
		t.Errorf("default read timeout lost: %d", cfg.Server.ReadTimeoutSec)
	}
}

func TestConfigurationRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deckgen.yaml")
	if err := os.WriteFile(path, []byte("no_such_section:\n  x: 1\n"), 0644); err != nil {
		t.Fatalf("unable to write config file: %v", err)
	}
	if _, err := LoadConfiguration(path); err == nil {
		t.Errorf("unknown keys should be rejected")
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("unable to load default configuration: %v", err)
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("unable to dump configuration: %v", err)
	}
	if !strings.Contains(string(data), "words_per_line: 5") {
		t.Errorf("dump is missing expected values:\n%s", data)
	}
	if _, err := unmarshalConfig(data, &Config{}, false); err != nil {
		t.Errorf("dumped configuration does not load back: %v", err)
	}
}

func TestCleanFileName(t *testing.T) {
	sep := string(os.PathSeparator)
	if got := CleanFileName("my" + sep + "deck"); got != "mydeck" {
		t.Errorf("separator kept: %q", got)
	}
	if got := CleanFileName("deck.pptx"); got != "deck.pptx" {
		t.Errorf("clean name changed: %q", got)
	}
	if got := CleanFileName(""); got != "_bad_file_name_" {
		t.Errorf("empty name placeholder missing: %q", got)
	}
}
