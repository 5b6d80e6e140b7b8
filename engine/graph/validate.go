package graph

import (
	"fmt"
	"strings"

	"github.com/nathoo/yokulogic/engine/predicate"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Errorf appends a formatted error.
func (e *ValidationError) Errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Warnf appends a formatted warning.
func (e *ValidationError) Warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Err returns e when it holds errors, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Validate checks the built graph. isItem reports whether a name is a known
// item; event items placed in the graph are always known.
func (g *Graph) Validate(isItem func(string) bool) error {
	ve := &ValidationError{}
	g.Check(isItem, ve)
	return ve.Err()
}

// Check is Validate writing into an existing ValidationError.
func (g *Graph) Check(isItem func(string) bool, ve *ValidationError) {
	if g.root == "" {
		ve.Errorf("root region is required")
	} else if _, ok := g.regions[g.root]; !ok {
		ve.Errorf("root region %q not found in defined regions", g.root)
	}
	if g.goal == "" {
		ve.Errorf("goal region is required")
	} else if _, ok := g.regions[g.goal]; !ok {
		ve.Errorf("goal region %q not found in defined regions", g.goal)
	}

	events := map[string]bool{}
	for _, l := range g.Events() {
		if l.Item == "" {
			ve.Errorf("event location %q holds no item", l.Name)
			continue
		}
		events[l.Item] = true
	}
	known := func(name string) bool {
		return events[name] || (isItem != nil && isItem(name))
	}

	for _, r := range g.order {
		for _, e := range r.Exits {
			if g.regions[e.To.Name] != e.To {
				ve.Errorf("exit %q points to a region outside the graph", e.Name)
			}
			predicate.Walk(e.Rule, func(h predicate.Has) {
				if h.Item == "" {
					ve.Errorf("exit %q requires an empty item name", e.Name)
					return
				}
				if !known(h.Item) {
					ve.Errorf("exit %q requires unknown item %q", e.Name, h.Item)
				}
				if h.Count < 1 {
					ve.Errorf("exit %q requires %d of %q; counts start at 1", e.Name, h.Count, h.Item)
				}
			})
		}
		if r.Name != g.root && len(r.Entrances) == 0 {
			ve.Warnf("region %q has no entrances", r.Name)
		}
	}
}
