package deck

import (
	"testing"
)

func TestSanitizeLine(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain", "hello world", "hello world"},
		{"tabs removed", "\tind\tented\t", "indented"},
		{"carriage returns", "line\r", "line"},
		{"nbsp to space", "a b", "a b"},
		{"zero width", "a​b\uFEFFc", "abc"},
		{"control chars", "a\x01\x02b\x1fc", "abc"},
		{"leading spaces", "   lead", "lead"},
		{"trailing spaces kept", "tail   ", "tail   "},
		{"trailing newline", "line\n", "line"},
		{"empty", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SanitizeLine(c.in)
			if got != c.want {
				t.Errorf("SanitizeLine(%q) = %q, want %q", c.in, got, c.want)
			}
			if again := SanitizeLine(got); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestReflowWords(t *testing.T) {
	cases := []struct {
		name, in string
		n        int
		want     string
	}{
		{"empty", "", 5, ""},
		{"whitespace only", "  \n ", 5, ""},
		{"short", "one two", 5, "one two"},
		{"exact", "a b c d e", 5, "a b c d e"},
		{"wraps", "a b c d e f g", 5, "a b c d e\nf g"},
		{"collapses newlines", "a b\nc d e f", 3, "a b c\nd e f"},
		{"punctuation stays", "word, stays; put.", 2, "word, stays;\nput."},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ReflowWords(c.in, c.n); got != c.want {
				t.Errorf("ReflowWords(%q, %d) = %q, want %q", c.in, c.n, got, c.want)
			}
		})
	}
}

func TestJoinPhrase(t *testing.T) {
	if got := joinPhrase("one two\n\nthree\n  \nfour"); got != "one two three four" {
		t.Errorf("joinPhrase = %q", got)
	}
	if got := joinPhrase(""); got != "" {
		t.Errorf("joinPhrase on empty = %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"\n", []string{""}},
	}
	for _, c := range cases {
		got := splitLines(c.in)
		if len(got) != len(c.want) {
			t.Errorf("splitLines(%q) = %q, want %q", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("splitLines(%q)[%d] = %q, want %q", c.in, i, got[i], c.want[i])
			}
		}
	}
}
