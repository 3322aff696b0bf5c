package editor

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Go   &  Rust!! ", "go-rust"},
		{"--Leading--and--trailing--", "leading-and-trailing"},
		{"Ünïcödé Title", "ncd-title"},
		{"a\tb", "ab"},
		{"!!!", ""},
		{"", ""},
		{"2024 Year-in-Review", "2024-year-in-review"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Fatalf("Slugify(%q) want %q got %q", tc.title, tc.want, got)
		}
	}
}

func TestSlugifyAlwaysSatisfiesSlugInvariant(t *testing.T) {
	titles := []string{
		strings.Repeat("a ", 60),
		strings.Repeat("word-", 40),
		strings.Repeat("x", 150),
		"  mixed CASE -- with   spaces and $ymbols ",
		"-",
		"日本語のタイトル",
		"trailing dash at cut " + strings.Repeat("ab ", 50),
	}
	for _, title := range titles {
		slug := Slugify(title)
		if slug == "" {
			continue
		}
		if !ValidSlug(slug) {
			t.Fatalf("Slugify(%q) produced invalid slug %q", title, slug)
		}
		if len(slug) > MaxSlugLength {
			t.Fatalf("Slugify(%q) length want <= %d got %d", title, MaxSlugLength, len(slug))
		}
	}
}

func TestReadTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{450, 3},
	}
	for _, tc := range cases {
		content := strings.TrimSpace(strings.Repeat("word ", tc.words))
		if got := ReadTime(content); got != tc.want {
			t.Fatalf("ReadTime(%d words) want %d got %d", tc.words, tc.want, got)
		}
	}
	if got := ReadTime("   \n\t "); got != 1 {
		t.Fatalf("ReadTime(whitespace) want 1 got %d", got)
	}
}

func TestWordAndCharCount(t *testing.T) {
	if got := WordCount("  one two\nthree\tfour  "); got != 4 {
		t.Fatalf("WordCount want 4 got %d", got)
	}
	if got := CharCount("héllo"); got != 5 {
		t.Fatalf("CharCount want 5 got %d", got)
	}
}
