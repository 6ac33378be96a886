package deck

import (
	"strings"

	"deckgen/config"
	"deckgen/pptx"
)

// hintFont converts a configured region hint into run-level font properties.
// Sizes are configured in points, colors as #rrggbb.
func hintFont(h *config.RegionHint) pptx.Font {
	if h == nil {
		return pptx.Font{}
	}
	f := pptx.Font{
		Name:   h.Font,
		Bold:   h.Bold,
		Italic: h.Italic,
	}
	if h.Size > 0 {
		f.Size = h.Size * 100
	}
	if c := strings.TrimPrefix(strings.TrimSpace(h.Color), "#"); len(c) == 6 {
		f.Color = strings.ToUpper(c)
	}
	return f
}

// fillMissingFont applies hint properties the run does not already have.
// Formatting the template carries always wins, the hint only fills gaps.
func fillMissingFont(r *pptx.Run, hint pptx.Font) {
	cur := r.Font()
	var add pptx.Font
	if hint.Name != "" && cur.Name == "" {
		add.Name = hint.Name
	}
	if hint.Size > 0 && cur.Size == 0 {
		add.Size = hint.Size
	}
	if hint.Bold != nil && cur.Bold == nil {
		add.Bold = hint.Bold
	}
	if hint.Italic != nil && cur.Italic == nil {
		add.Italic = hint.Italic
	}
	if hint.Color != "" && cur.Color == "" {
		add.Color = hint.Color
	}
	r.ApplyFont(add)
}
