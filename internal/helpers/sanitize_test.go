package helpers

import "testing"

func TestSanitizeHTMLStrictRemovesTags(t *testing.T) {
	in := `<b>Nike Air Max</b> <script>alert("x")</script> official store`
	got := SanitizeHTMLStrict(in)
	want := "Nike Air Max  official store"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSanitizeHTMLStrictEmpty(t *testing.T) {
	if got := SanitizeHTMLStrict("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("expected unchanged string, got %q", got)
	}
	got := Truncate("a very long snippet of text", 6)
	if got != "a very…" {
		t.Fatalf("expected truncated string with ellipsis, got %q", got)
	}
}
