package server

import (
	"strings"
	"testing"
)

func TestSafeDownloadName(t *testing.T) {
	cases := []struct {
		name, raw, fallback string
		transliterate       bool
		want                string
	}{
		{"empty uses fallback", "", "Marsiya_export", false, "Marsiya_export.pptx"},
		{"extension added", "my deck", "export", false, "my_deck.pptx"},
		{"extension kept", "deck.pptx", "export", false, "deck.pptx"},
		{"wrong extension replaced", "deck.exe", "export", false, "deck.pptx"},
		{"path separators", "../../etc/passwd", "export", false, "etc_passwd.pptx"},
		{"specials stripped", "a<b>:c?.pptx", "export", false, "abc.pptx"},
		{"all garbage uses fallback", "???", "export", false, "export.pptx"},
		{"leading dots dropped", "..secret", "export", false, "secret.pptx"},
		{"list separator dropped", "my:deck", "export", false, "mydeck.pptx"},
		{"transliterated", "Мой доклад", "export", true, "moi-doklad.pptx"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SafeDownloadName(c.raw, c.fallback, c.transliterate); got != c.want {
				t.Errorf("SafeDownloadName(%q) = %q, want %q", c.raw, got, c.want)
			}
		})
	}
}

func TestSafeDownloadNameLength(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := SafeDownloadName(long, "export", false)
	if len(got) > maxDownloadNameLen {
		t.Errorf("name too long: %d", len(got))
	}
	if !strings.HasSuffix(got, ".pptx") {
		t.Errorf("extension lost: %q", got)
	}
}
