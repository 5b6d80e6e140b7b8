package tui

import "strings"

var verbs = []string{
	"collect", "drop", "inventory", "reach", "locations", "can", "goal",
	"path", "where", "mode", "pool", "everything", "reset", "missing", "help",
}

// complete extends input on tab. With no space yet it completes the verb;
// after that it completes the rest of the line against names. Several
// matches extend to their longest common prefix.
func complete(input string, names []string) (string, bool) {
	verb, rest, found := strings.Cut(input, " ")
	if !found {
		if ext, ok := extend(verb, verbs); ok {
			return ext, true
		}
		return input, false
	}
	rest = strings.TrimLeft(rest, " ")
	if rest == "" {
		return input, false
	}
	ext, ok := extend(rest, names)
	if !ok {
		return input, false
	}
	return verb + " " + ext, true
}

// extend returns the longest common prefix of the names starting with
// prefix, ignoring case.
func extend(prefix string, names []string) (string, bool) {
	lower := strings.ToLower(prefix)
	var common string
	matched := false
	for _, n := range names {
		if !strings.HasPrefix(strings.ToLower(n), lower) {
			continue
		}
		if !matched {
			common, matched = n, true
			continue
		}
		common = commonPrefix(common, n)
	}
	if !matched || len(common) <= len(prefix) {
		return prefix, false
	}
	return common, true
}

func commonPrefix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) && strings.EqualFold(a[i:i+1], b[i:i+1]) {
		i++
	}
	return a[:i]
}
