// Package events collects event items. An event location hands its locked
// item over as soon as its region is reached; collection is a single pass
// and the caller decides whether to sweep again.
package events

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/yokulogic/engine/graph"
	"github.com/nathoo/yokulogic/engine/inventory"
)

// Collect fires every event location whose region is in reached and whose
// name is not yet in done. Fired items are added to got, fired locations to
// done. Returns the names of the locations fired by this pass.
func Collect(g *graph.Graph, reached mapset.Set[string], done mapset.Set[string], got inventory.Counts) []string {
	var fired []string

	for _, loc := range g.Events() {
		if done.Has(loc.Name) {
			continue
		}
		if !reached.Has(loc.Region.Name) {
			continue
		}
		done.Put(loc.Name)
		got.Add(loc.Item, 1)
		fired = append(fired, loc.Name)
	}

	return fired
}
