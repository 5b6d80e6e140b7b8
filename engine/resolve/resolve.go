// Package resolve maps names typed by a user to item, location and region
// names.
package resolve

import (
	"fmt"
	"strings"
)

// Candidate is one name that a query may resolve to.
type Candidate struct {
	Name    string
	Aliases []string
}

// Names wraps plain names as candidates.
func Names(names ...string) []Candidate {
	out := make([]Candidate, len(names))
	for i, n := range names {
		out[i] = Candidate{Name: n}
	}
	return out
}

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no candidate matched a name.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("nothing called %q", e.Name)
	}
	return fmt.Sprintf("no %s called %q", e.Kind, e.Name)
}

// Resolve picks the candidate meant by query. Matching runs in tiers and
// stops at the first tier with any match:
//
//  1. exact name, ignoring case
//  2. alias, ignoring case
//  3. normalised name: underscores as spaces, articles dropped
//  4. every query word appears in the name
//
// More than one match in a tier is an AmbiguityError.
func Resolve(kind, query string, cands []Candidate) (string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", &NotFoundError{Kind: kind, Name: query}
	}
	nq := normalize(q)

	tiers := []func(Candidate) bool{
		func(c Candidate) bool {
			return strings.ToLower(c.Name) == q
		},
		func(c Candidate) bool {
			for _, a := range c.Aliases {
				if strings.ToLower(a) == q {
					return true
				}
			}
			return false
		},
		func(c Candidate) bool {
			return normalize(c.Name) == nq
		},
		func(c Candidate) bool {
			return containsWords(normalize(c.Name), nq)
		},
	}

	for _, match := range tiers {
		var matches []string
		for _, c := range cands {
			if match(c) {
				matches = append(matches, c.Name)
			}
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return "", &AmbiguityError{Name: query, Candidates: matches}
		}
	}
	return "", &NotFoundError{Kind: kind, Name: query}
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "of": true,
}

// normalize lowercases s, turns underscores and dashes into spaces, strips
// punctuation ("Wl. 10:" becomes "wl 10"), drops articles and splits trailing digits off region-style names ("village4"
// becomes "village 4").
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", " ", "-", " ", "'", "", ":", " ", ".", " ", ",", " ", "!", " ").Replace(s)
	var words []string
	for _, w := range strings.Fields(s) {
		if articles[w] {
			continue
		}
		words = append(words, splitDigits(w)...)
	}
	return strings.Join(words, " ")
}

func splitDigits(w string) []string {
	i := len(w)
	for i > 0 && w[i-1] >= '0' && w[i-1] <= '9' {
		i--
	}
	if i == 0 || i == len(w) {
		return []string{w}
	}
	return []string{w[:i], w[i:]}
}

// containsWords reports whether every word of query is a word of name.
func containsWords(name, query string) bool {
	have := map[string]bool{}
	for _, w := range strings.Fields(name) {
		have[w] = true
	}
	words := strings.Fields(query)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !have[w] {
			return false
		}
	}
	return true
}
