// Package catalog discovers presentation templates and their preview images
// on disk. Nothing is cached, directories are re-read per request so newly
// dropped templates show up without a restart.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"deckgen/config"
)

// Templates lists available template file names, naturally sorted, with
// configured exclusions removed.
func Templates(cfg *config.CatalogConfig) ([]string, error) {
	entries, err := os.ReadDir(cfg.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("unable to read templates directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ".pptx") {
			continue
		}
		if cfg.Excluded(baseName(name)) {
			continue
		}
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}

// Resolve maps a template name from a request onto its path, allowing only
// names Templates would list. Anything else, path tricks included, is
// rejected.
func Resolve(cfg *config.CatalogConfig, name string) (string, error) {
	available, err := Templates(cfg)
	if err != nil {
		return "", err
	}
	for _, t := range available {
		if t == name {
			return filepath.Join(cfg.TemplatesDir, t), nil
		}
	}
	return "", fmt.Errorf("template %q is not available", name)
}

// MatchTemplate finds the template a preview image stands for: first a
// template whose base name contains the image base, then the capitalized
// image base with a .pptx extension.
func MatchTemplate(imageBase string, templates []string) string {
	base := strings.ToLower(imageBase)
	for _, t := range templates {
		if strings.Contains(baseName(t), base) {
			return t
		}
	}
	candidate := capitalize(base) + ".pptx"
	for _, t := range templates {
		if t == candidate {
			return t
		}
	}
	return ""
}

func baseName(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
