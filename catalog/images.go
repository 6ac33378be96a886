package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/maruel/natural"

	"deckgen/config"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Images lists preview images, naturally sorted, with configured exclusions
// removed. Files are sniffed, a wrong extension on a non-image keeps it out
// of the catalog.
func Images(cfg *config.CatalogConfig) ([]string, error) {
	entries, err := os.ReadDir(cfg.ImagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read images directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !imageExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if cfg.Excluded(baseName(name)) {
			continue
		}
		if !sniffImage(filepath.Join(cfg.ImagesDir, name)) {
			continue
		}
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}

// ImageTemplates maps every preview image onto its matching template name,
// empty when no template matches.
func ImageTemplates(cfg *config.CatalogConfig) (map[string]string, []string, []string, error) {
	templates, err := Templates(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	images, err := Images(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	matched := make(map[string]string, len(images))
	for _, img := range images {
		matched[img] = MatchTemplate(strings.TrimSuffix(img, filepath.Ext(img)), templates)
	}
	return matched, templates, images, nil
}

// Thumbnail produces a scaled-down preview of a catalog image, returning the
// bytes and a content type. Formats the scaler cannot handle come back
// unchanged.
func Thumbnail(cfg *config.CatalogConfig, name string) ([]byte, string, error) {
	images, err := Images(cfg)
	if err != nil {
		return nil, "", err
	}
	found := false
	for _, img := range images {
		if img == name {
			found = true
			break
		}
	}
	if !found {
		return nil, "", fmt.Errorf("image %q is not available", name)
	}

	path := filepath.Join(cfg.ImagesDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("unable to read image: %w", err)
	}
	contentType := imageContentType(data)

	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		// webp and friends pass through at full size
		return data, contentType, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data, contentType, nil
	}
	if cfg.ThumbnailWidth > 0 && img.Bounds().Dx() > cfg.ThumbnailWidth {
		img = imaging.Resize(img, cfg.ThumbnailWidth, 0, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, format); err != nil {
		return nil, "", fmt.Errorf("unable to encode thumbnail: %w", err)
	}
	return out.Bytes(), contentType, nil
}

func sniffImage(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 261)
	n, err := io.ReadFull(f, head)
	if err != nil && n == 0 {
		return false
	}
	return filetype.IsImage(head[:n])
}

func imageContentType(data []byte) string {
	if t, err := filetype.Match(data); err == nil && t.MIME.Value != "" {
		return t.MIME.Value
	}
	return "application/octet-stream"
}
