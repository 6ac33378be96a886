package server

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gosimple/slug"

	"deckgen/config"
)

const maxDownloadNameLen = 120

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SafeDownloadName turns a user-provided name into a safe attachment file
// name with a .pptx extension, falling back to fallbackBase when the input
// reduces to nothing. With transliterate set, non-ASCII names are converted
// to readable ASCII slugs instead of being stripped.
func SafeDownloadName(raw, fallbackBase string, transliterate bool) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		base = fallbackBase
	}
	base = strings.NewReplacer("/", " ", `\`, " ").Replace(base)

	var safe string
	if transliterate {
		safe = slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	} else {
		safe = secureFileName(base)
	}
	if safe == "" {
		safe = secureFileName(fallbackBase)
	}
	if safe == "" {
		safe = "export"
	}
	safe = config.CleanFileName(safe)

	if ext := filepath.Ext(safe); !strings.EqualFold(ext, ".pptx") {
		safe = strings.TrimSuffix(safe, ext) + ".pptx"
	}
	if len(safe) > maxDownloadNameLen {
		name := strings.TrimSuffix(safe, ".pptx")
		safe = name[:maxDownloadNameLen-5] + ".pptx"
	}
	return safe
}

// secureFileName strips everything that is not a conservative file name
// character, turning whitespace runs into single underscores.
func secureFileName(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeNameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._-")
}
