package textproc

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"markdown bold", "this is **important** news", "this is important news"},
		{"markdown italic", "this is *subtle* news", "this is subtle news"},
		{"markdown code", "run `go test` now", "run go test now"},
		{"markdown link", "see [the docs](https://example.com) here", "see the docs here"},
		{"html tags", "<p>hello <b>world</b></p>", "hello world"},
		{"html entities", "fish &amp; chips", "fish & chips"},
		{"smart quotes", "she said “hello” and ‘bye’", `she said "hello" and 'bye'`},
		{"ellipsis", "well… maybe", "well... maybe"},
		{"dashes", "north–south and east—west", "north-south and east-west"},
		{"degrees", "it is 20° outside", "it is 20 degrees outside"},
		{"percent", "50% done", "50 percent done"},
		{"whitespace collapse", "too   many\n\nspaces", "too many spaces"},
		{"control chars", "null\x00byte\x07bell", "nullbytebell"},
		{"empty", "", ""},
		{"only markup", "<div><span></span></div>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("short text changed: %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello" {
		t.Errorf("Truncate = %q, want %q", got, "hello")
	}
	if got := Truncate("hello", 0); got != "hello" {
		t.Errorf("zero limit should disable truncation, got %q", got)
	}
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	// "héllo" is six bytes; cutting at 2 lands inside the é.
	got := Truncate("héllo", 2)
	if got != "h" {
		t.Errorf("Truncate = %q, want %q", got, "h")
	}

	for max := 1; max < 12; max++ {
		out := Truncate("日本語テスト", max)
		for _, r := range out {
			if r == '�' {
				t.Fatalf("max=%d produced an invalid rune in %q", max, out)
			}
		}
	}
}
