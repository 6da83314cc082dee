package pipeline

import "testing"

func TestDefaultSearchPolicy(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"tell me about this brand", true},
		{"What is the price of this watch", true},
		{"should I buy these shoes", true},
		{"is it authentic", true},
		{"good morning", false},
		{"set a reminder for tomorrow", false},
	}
	for _, c := range cases {
		if got := DefaultSearchPolicy(c.query); got != c.want {
			t.Fatalf("DefaultSearchPolicy(%q) = %v, want %v", c.query, got, c.want)
		}
	}
}
