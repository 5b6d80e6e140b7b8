package engine

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/yokulogic/engine/graph"
	"github.com/nathoo/yokulogic/engine/inventory"
)

// Sphere is one round of a playthrough: every placed location reachable
// with the items of earlier spheres, and the items found there.
type Sphere struct {
	Locations []string `json:"locations"`
	Items     []string `json:"items"`
}

// Playthrough is the result of replaying a placement.
type Playthrough struct {
	Spheres   []Sphere `json:"spheres"`
	Goal      bool     `json:"goal"`
	Unreached []string `json:"unreached,omitempty"`
}

// Playthrough replays a host placement (location name to item name) starting
// from start. It collects items sphere by sphere until nothing new opens and
// reports whether the goal was reached. It checks a placement; it does not
// search for one. Placing an item in an unknown or event location is an
// error.
func (e *Engine) Playthrough(start inventory.Inventory, placement map[string]string) (*Playthrough, error) {
	for name := range placement {
		loc, ok := e.Graph.Location(name)
		if !ok {
			return nil, fmt.Errorf("placement: %w: %q", graph.ErrUnknownLocation, name)
		}
		if loc.IsEvent() {
			return nil, fmt.Errorf("placement: %q is an event location", name)
		}
	}

	found := inventory.Counts{}
	view := inventory.Overlay{Base: start, Extra: found}
	taken := mapset.New[string]()
	out := &Playthrough{}

	for {
		res := e.Sweep(view)
		var sphere Sphere
		for _, loc := range e.Graph.Locations() {
			item, placed := placement[loc.Name]
			if !placed || taken.Has(loc.Name) || !res.Reached(loc.Region.Name) {
				continue
			}
			sphere.Locations = append(sphere.Locations, loc.Name)
			sphere.Items = append(sphere.Items, item)
		}
		if len(sphere.Locations) == 0 {
			out.Goal = res.Reached(e.Graph.Goal())
			break
		}
		// Items of a sphere only count from the next sphere on.
		for i, name := range sphere.Locations {
			taken.Put(name)
			if sphere.Items[i] != "" {
				found.Add(sphere.Items[i], 1)
			}
		}
		out.Spheres = append(out.Spheres, sphere)
	}

	for _, loc := range e.Graph.Locations() {
		if _, placed := placement[loc.Name]; placed && !taken.Has(loc.Name) {
			out.Unreached = append(out.Unreached, loc.Name)
		}
	}
	return out, nil
}
