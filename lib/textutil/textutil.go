package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// fillerWords are dropped before comparing queries, "restaurants in karachi"
// and "restaurants karachi" ask for the same thing.
var fillerWords = regexp.MustCompile(`\b(in|near|at|the|of|around)\b`)

func NormalizeQuery(query string) string {
	query = strings.ToLower(query)
	query = fillerWords.ReplaceAllString(query, " ")
	query = strings.Trim(query, " \n\t")
	query = whitespaceRegex.ReplaceAllString(query, "")
	return query
}

// QuerySimilarity scores two queries between 0 and 1, 1 meaning identical
// after normalization.
func QuerySimilarity(a, b string) float64 {
	a = NormalizeQuery(a)
	b = NormalizeQuery(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return matchr.JaroWinkler(a, b, false)
}
