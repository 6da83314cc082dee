package pipeline

import "strings"

// SearchPolicy decides whether a query on its own warrants web research. It
// is consulted when the vision model has not already flagged the need.
type SearchPolicy func(query string) bool

var queryIndicators = []string{
	"tell me about", "what is", "who is", "should i", "is it",
	"authentic", "real", "fake", "review", "price", "buy",
}

// DefaultSearchPolicy triggers research for queries that clearly ask for
// information: brand questions, authenticity checks, reviews, pricing.
func DefaultSearchPolicy(query string) bool {
	q := strings.ToLower(query)
	for _, indicator := range queryIndicators {
		if strings.Contains(q, indicator) {
			return true
		}
	}
	return false
}
