package loader

import (
	"log/slog"

	"github.com/nathoo/yokulogic/engine/graph"
	"github.com/nathoo/yokulogic/engine/predicate"
	"github.com/nathoo/yokulogic/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError = graph.ValidationError

// validate checks the compiled rules for consistency that does not depend
// on the item and location tables. Those checks run when a graph is built.
func validate(rs *RuleSet) error {
	ve := &ValidationError{}

	if rs.Root == "" {
		ve.Errorf("Game.root is required")
	}
	if rs.Goal == "" {
		ve.Errorf("Game.goal is required")
	}

	declared := map[string]bool{}
	for _, name := range rs.Regions {
		if name == "" {
			ve.Errorf("Region with an empty name")
		}
		if declared[name] {
			ve.Errorf("region %q declared twice", name)
		}
		declared[name] = true
	}

	type edge struct{ from, to string }
	seen := map[edge]string{}
	for _, c := range rs.Connections {
		if c.From == "" || c.To == "" {
			ve.Errorf("%s: connection with an empty region name", c.File)
			continue
		}
		if c.From == c.To {
			ve.Errorf("%s: connection %s -> %s loops onto itself", c.File, c.From, c.To)
		}
		keys := []edge{{c.From, c.To}}
		if c.TwoWay {
			keys = append(keys, edge{c.To, c.From})
		}
		for _, k := range keys {
			if prev, dup := seen[k]; dup {
				ve.Errorf("%s: connection %s -> %s already defined in %s", c.File, k.from, k.to, prev)
			}
			seen[k] = c.File
		}

		for _, m := range types.Modes {
			p, ok := c.Rules[m]
			if !ok {
				continue
			}
			predicate.Walk(p, func(h predicate.Has) {
				if h.Count < 1 {
					ve.Errorf("%s: connection %s -> %s (%s) requires %d of %q; counts start at 1",
						c.File, c.From, c.To, m, h.Count, h.Item)
				}
			})
		}

		if len(c.Rules) == 0 {
			ve.Warnf("%s: connection %s -> %s exists in no mode", c.File, c.From, c.To)
			continue
		}
		// A harder mode never opens an exit the easier mode lacks.
		for i := 1; i < len(types.Modes); i++ {
			easier, harder := types.Modes[i-1], types.Modes[i]
			_, inEasier := c.Rules[easier]
			_, inHarder := c.Rules[harder]
			if inHarder && !inEasier {
				ve.Warnf("%s: connection %s -> %s exists in %s but not in %s",
					c.File, c.From, c.To, harder, easier)
			}
		}
	}

	locs := map[string]bool{}
	for _, e := range rs.Events {
		if e.Region == "" || e.Location == "" || e.Item == "" {
			ve.Errorf("Event(%q, %q, %q) needs a region, a location and an item", e.Region, e.Location, e.Item)
			continue
		}
		if locs[e.Location] {
			ve.Errorf("event location %q defined twice", e.Location)
		}
		locs[e.Location] = true
	}

	rs.Warnings = append(rs.Warnings, ve.Warnings...)
	for _, w := range ve.Warnings {
		slog.Warn("rules warning", "warning", w)
	}

	return ve.Err()
}
