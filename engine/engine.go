// Package engine computes what a player can reach. Given a region graph and
// an inventory it grows the reached set from the root region to a fixpoint,
// and answers location, goal and path queries on top of that set.
package engine

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/yokulogic/engine/events"
	"github.com/nathoo/yokulogic/engine/graph"
	"github.com/nathoo/yokulogic/engine/inventory"
	"github.com/nathoo/yokulogic/engine/predicate"
)

// Engine evaluates one graph. An engine from New holds no mutable state and
// may be shared between goroutines; a shuffled engine may not.
type Engine struct {
	Graph *graph.Graph
	rng   *RNG
}

// New creates an engine that visits regions in graph order.
func New(g *graph.Graph) *Engine {
	return &Engine{Graph: g}
}

// NewShuffled creates an engine that visits regions and exits in an order
// drawn from seed. Results are identical to New; only the visit order moves.
func NewShuffled(g *graph.Graph, seed int64) *Engine {
	return &Engine{Graph: g, rng: NewRNG(seed)}
}

// RNG returns the visit-order source, or nil for an ordered engine.
func (e *Engine) RNG() *RNG {
	return e.rng
}

// Result is the outcome of one sweep.
type Result struct {
	Regions   mapset.Set[string]
	Events    []string         // event locations fired, in firing order
	Collected inventory.Counts // event items gained on top of the input
	Rounds    int
}

// Reached reports whether region name was reached.
func (r Result) Reached(name string) bool {
	return r.Regions.Has(name)
}

// Names returns the reached region names in sorted order.
func (r Result) Names() []string {
	names := make([]string, 0, r.Regions.Size())
	r.Regions.Each(func(n string) {
		names = append(names, n)
	})
	sort.Strings(names)
	return names
}

// Sweep runs the fixpoint. The root is always reached. Each round expands
// the reached set until no exit opens, then fires the event locations of
// reached regions; a round that fires nothing ends the sweep. inv is never
// modified.
func (e *Engine) Sweep(inv inventory.Inventory) Result {
	res := Result{
		Regions:   mapset.New[string](),
		Collected: inventory.Counts{},
	}
	root, ok := e.Graph.Region(e.Graph.Root())
	if !ok {
		return res
	}

	view := inventory.Overlay{Base: inv, Extra: res.Collected}
	done := mapset.New[string]()
	res.Regions.Put(root.Name)
	frontier := []*graph.Region{root}

	for {
		res.Rounds++
		e.expand(res.Regions, frontier, view)

		fired := events.Collect(e.Graph, res.Regions, done, res.Collected)
		if len(fired) == 0 {
			break
		}
		res.Events = append(res.Events, fired...)

		// New event items may open exits out of any reached region.
		frontier = frontier[:0]
		for _, r := range e.Graph.Regions() {
			if res.Regions.Has(r.Name) {
				frontier = append(frontier, r)
			}
		}
	}

	return res
}

// expand grows reached from queue. Each region is queued once, and an exit
// is tried only when its source is dequeued; with a fixed inventory an exit
// that is closed stays closed, so one visit per region is enough.
func (e *Engine) expand(reached mapset.Set[string], queue []*graph.Region, inv inventory.Inventory) {
	for len(queue) > 0 {
		var r *graph.Region
		if e.rng != nil {
			i := e.rng.Intn(len(queue))
			r = queue[i]
			queue[i] = queue[len(queue)-1]
			queue = queue[:len(queue)-1]
		} else {
			r = queue[0]
			queue = queue[1:]
		}

		exits := r.Exits
		if e.rng != nil {
			exits = append([]*graph.Entrance(nil), exits...)
			e.rng.Shuffle(len(exits), func(i, j int) { exits[i], exits[j] = exits[j], exits[i] })
		}

		for _, ex := range exits {
			if reached.Has(ex.To.Name) {
				continue
			}
			if !predicate.Eval(ex.Rule, inv) {
				continue
			}
			reached.Put(ex.To.Name)
			queue = append(queue, ex.To)
		}
	}
}

// ReachableRegions returns the names of every region reachable under inv.
func (e *Engine) ReachableRegions(inv inventory.Inventory) mapset.Set[string] {
	return e.Sweep(inv).Regions
}

// IsLocationReachable reports whether the region holding location name is
// reachable under inv.
func (e *Engine) IsLocationReachable(inv inventory.Inventory, name string) (bool, error) {
	loc, ok := e.Graph.Location(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", graph.ErrUnknownLocation, name)
	}
	return e.Sweep(inv).Reached(loc.Region.Name), nil
}

// IsGoalSatisfied reports whether the goal region is reachable under inv.
func (e *Engine) IsGoalSatisfied(inv inventory.Inventory) bool {
	return e.Sweep(inv).Reached(e.Graph.Goal())
}

// ReachableLocations returns the item locations, events excluded, whose
// region is reachable under inv, in graph order.
func (e *Engine) ReachableLocations(inv inventory.Inventory) []*graph.Location {
	res := e.Sweep(inv)
	var out []*graph.Location
	for _, loc := range e.Graph.Locations() {
		if loc.IsEvent() {
			continue
		}
		if res.Reached(loc.Region.Name) {
			out = append(out, loc)
		}
	}
	return out
}

// PathTo returns a shortest chain of exits from the root to region under
// inv, including event items gained on the way. The chain is empty for the
// root itself; ok is false when region is unknown or unreachable.
func (e *Engine) PathTo(inv inventory.Inventory, region string) ([]*graph.Entrance, bool) {
	target, ok := e.Graph.Region(region)
	if !ok {
		return nil, false
	}
	res := e.Sweep(inv)
	if !res.Reached(region) {
		return nil, false
	}
	root, _ := e.Graph.Region(e.Graph.Root())
	if root == target {
		return []*graph.Entrance{}, true
	}

	view := inventory.Overlay{Base: inv, Extra: res.Collected}
	parent := map[*graph.Region]*graph.Entrance{}
	seen := mapset.Of(root.Name)
	queue := []*graph.Region{root}

	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for _, ex := range r.Exits {
			if seen.Has(ex.To.Name) || !predicate.Eval(ex.Rule, view) {
				continue
			}
			seen.Put(ex.To.Name)
			parent[ex.To] = ex
			if ex.To == target {
				return chain(parent, root, target), true
			}
			queue = append(queue, ex.To)
		}
	}
	return nil, false
}

func chain(parent map[*graph.Region]*graph.Entrance, root, target *graph.Region) []*graph.Entrance {
	var path []*graph.Entrance
	for r := target; r != root; {
		ex := parent[r]
		path = append(path, ex)
		r = ex.From
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
