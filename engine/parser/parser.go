// Package parser converts explorer command strings into Intent structs.
// Intentionally dumb: no NLP, just aliases and a count.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/yokulogic/types"
)

var verbAliases = map[string]string{
	// Collect
	"add":  "collect",
	"get":  "collect",
	"take": "collect",
	"grab": "collect",
	"give": "collect",
	"+":    "collect",

	// Drop
	"remove":  "drop",
	"discard": "drop",
	"lose":    "drop",
	"-":       "drop",

	// Inventory
	"inv": "inventory",
	"i":   "inventory",

	// Reach
	"r":         "reach",
	"regions":   "reach",
	"reachable": "reach",

	// Locations
	"l":    "locations",
	"locs": "locations",
	"look": "locations",

	// Can
	"check": "can",
	"?":     "can",

	// Goal
	"win":     "goal",
	"victory": "goal",

	// Path
	"route": "path",
	"how":   "path",

	// Where
	"find":   "where",
	"locate": "where",

	// Pool
	"items": "pool",

	// Everything / reset / missing
	"all":   "everything",
	"clear": "reset",
	"need":  "missing",
	"todo":  "missing",
}

// countVerbs take a count; other verbs keep trailing numbers as part of the
// name ("can mailbox 04").
var countVerbs = map[string]bool{
	"collect": true,
	"drop":    true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent. A count may lead or
// trail the object ("collect 2 dive fish", "collect dive fish x2"), and
// "all" asks for every copy. "+name" and "-name" are collect and drop.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// "+dive" / "-dive" shorthand.
	if w := words[0]; len(w) > 1 && (w[0] == '+' || w[0] == '-') {
		words = append([]string{w[:1], w[1:]}, words[1:]...)
	}

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	count := 0
	if countVerbs[verb] && len(rest) > 1 {
		if n, ok := parseCount(rest[0]); ok {
			count = n
			rest = rest[1:]
		} else if n, ok := parseCount(rest[len(rest)-1]); ok {
			count = n
			rest = rest[:len(rest)-1]
		}
	}

	return types.Intent{
		Verb:   verb,
		Object: strings.Join(rest, " "),
		Count:  count,
	}
}

// parseCount reads "3", "x3" or "all". Zero and negative numbers are not
// counts, so a region or item name ending in a digit is left alone when it
// would parse to nothing useful.
func parseCount(w string) (int, bool) {
	if w == "all" {
		return -1, true
	}
	w = strings.TrimPrefix(w, "x")
	n, err := strconv.Atoi(w)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}
