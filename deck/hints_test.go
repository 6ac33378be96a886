package deck

import (
	"testing"

	"deckgen/config"
)

func TestHintFont(t *testing.T) {
	if f := hintFont(nil); f.Name != "" || f.Size != 0 || f.Bold != nil || f.Italic != nil || f.Color != "" {
		t.Errorf("nil hint should produce empty font: %+v", f)
	}

	bold := true
	f := hintFont(&config.RegionHint{
		Color: "#ffc000",
		Font:  "Open Sans",
		Size:  54,
		Bold:  &bold,
	})
	if f.Name != "Open Sans" {
		t.Errorf("name = %q", f.Name)
	}
	if f.Size != 5400 {
		t.Errorf("size = %d, want hundredths of a point", f.Size)
	}
	if f.Color != "FFC000" {
		t.Errorf("color = %q", f.Color)
	}
	if f.Bold == nil || !*f.Bold {
		t.Errorf("bold not carried over")
	}
	if f.Italic != nil {
		t.Errorf("italic should stay unset")
	}

	if f := hintFont(&config.RegionHint{Color: "bad"}); f.Color != "" {
		t.Errorf("malformed color should be dropped, got %q", f.Color)
	}
}
