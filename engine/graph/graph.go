// Package graph stores the region graph: named regions holding item
// locations, joined by directed exits that may carry a predicate guard.
// A graph is built once and only read afterwards, so one graph can serve
// any number of concurrent evaluations.
package graph

import (
	"errors"
	"fmt"

	"github.com/nathoo/yokulogic/engine/predicate"
	"github.com/nathoo/yokulogic/types"
)

var (
	ErrDuplicateRegion   = errors.New("duplicate region")
	ErrDuplicateLocation = errors.New("duplicate location")
	ErrUnknownRegion     = errors.New("unknown region")
	ErrUnknownLocation   = errors.New("unknown location")
)

// Location is a spot in a region that can hold one item. A location with
// ID 0 is an event: a synthetic gating signal whose Item is locked in.
type Location struct {
	Name   string
	ID     int64
	Region *Region
	Item   string
	Def    types.LocationDef
}

// IsEvent reports whether the location is an event location.
func (l *Location) IsEvent() bool {
	return l.ID == 0
}

// Entrance is a directed exit from one region to another. A nil Rule is free.
type Entrance struct {
	Name string
	From *Region
	To   *Region
	Rule predicate.Predicate
}

// Region is a node of the graph.
type Region struct {
	Name      string
	Locations []*Location
	Exits     []*Entrance
	Entrances []*Entrance
}

// Graph is the whole region graph for one mode.
type Graph struct {
	root      string
	goal      string
	regions   map[string]*Region
	order     []*Region
	locations map[string]*Location
	locOrder  []*Location
}

// New creates an empty graph with the given root and goal region names.
// The regions themselves are added later with AddRegion.
func New(root, goal string) *Graph {
	return &Graph{
		root:      root,
		goal:      goal,
		regions:   map[string]*Region{},
		locations: map[string]*Location{},
	}
}

// AddRegion creates a region holding the given locations.
func (g *Graph) AddRegion(name string, locs ...types.LocationDef) (*Region, error) {
	if _, ok := g.regions[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateRegion, name)
	}
	seen := map[string]bool{}
	for _, l := range locs {
		if _, ok := g.locations[l.Name]; ok || seen[l.Name] {
			return nil, fmt.Errorf("%w: %q in region %q", ErrDuplicateLocation, l.Name, name)
		}
		seen[l.Name] = true
	}

	r := &Region{Name: name}
	for _, l := range locs {
		def := l
		def.Region = name
		g.addLocation(r, &Location{Name: l.Name, ID: l.ID, Region: r, Def: def})
	}
	g.regions[name] = r
	g.order = append(g.order, r)
	return r, nil
}

func (g *Graph) addLocation(r *Region, loc *Location) {
	r.Locations = append(r.Locations, loc)
	g.locations[loc.Name] = loc
	g.locOrder = append(g.locOrder, loc)
}

// Connect adds an exit from src to dst, and the reverse exit too when twoWay
// is set. Both directions share the same rule.
func (g *Graph) Connect(src, dst *Region, rule predicate.Predicate, twoWay bool) error {
	if src == nil || g.regions[src.Name] != src {
		return fmt.Errorf("%w: source region not in graph", ErrUnknownRegion)
	}
	if dst == nil || g.regions[dst.Name] != dst {
		return fmt.Errorf("%w: target region not in graph", ErrUnknownRegion)
	}
	g.link(src, dst, rule)
	if twoWay {
		g.link(dst, src, rule)
	}
	return nil
}

// ConnectNames is Connect by region name.
func (g *Graph) ConnectNames(src, dst string, rule predicate.Predicate, twoWay bool) error {
	from, ok := g.regions[src]
	if !ok {
		return fmt.Errorf("connecting %q -> %q: %w: %q", src, dst, ErrUnknownRegion, src)
	}
	to, ok := g.regions[dst]
	if !ok {
		return fmt.Errorf("connecting %q -> %q: %w: %q", src, dst, ErrUnknownRegion, dst)
	}
	return g.Connect(from, to, rule, twoWay)
}

func (g *Graph) link(from, to *Region, rule predicate.Predicate) {
	e := &Entrance{
		Name: from.Name + " -> " + to.Name,
		From: from,
		To:   to,
		Rule: rule,
	}
	from.Exits = append(from.Exits, e)
	to.Entrances = append(to.Entrances, e)
}

// AddEventLocation attaches an id-less location to region with itemName
// permanently placed in it.
func (g *Graph) AddEventLocation(region, locationName, itemName string) (*Location, error) {
	r, ok := g.regions[region]
	if !ok {
		return nil, fmt.Errorf("event %q: %w: %q", locationName, ErrUnknownRegion, region)
	}
	if _, ok := g.locations[locationName]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateLocation, locationName)
	}
	loc := &Location{
		Name:   locationName,
		Region: r,
		Item:   itemName,
		Def:    types.LocationDef{Name: locationName, Region: region},
	}
	g.addLocation(r, loc)
	return loc, nil
}

// Root returns the root region name.
func (g *Graph) Root() string { return g.root }

// Goal returns the goal region name.
func (g *Graph) Goal() string { return g.goal }

// Regions returns every region in the order it was added.
func (g *Graph) Regions() []*Region {
	return g.order
}

// Region looks a region up by name.
func (g *Graph) Region(name string) (*Region, bool) {
	r, ok := g.regions[name]
	return r, ok
}

// Outgoing returns the exits leaving r.
func (g *Graph) Outgoing(r *Region) []*Entrance {
	return r.Exits
}

// Incoming returns the exits arriving at r.
func (g *Graph) Incoming(r *Region) []*Entrance {
	return r.Entrances
}

// LocationsOf returns the locations held by r.
func (g *Graph) LocationsOf(r *Region) []*Location {
	return r.Locations
}

// Location looks a location up by name.
func (g *Graph) Location(name string) (*Location, bool) {
	l, ok := g.locations[name]
	return l, ok
}

// Locations returns every location in the order it was added.
func (g *Graph) Locations() []*Location {
	return g.locOrder
}

// Events returns the event locations.
func (g *Graph) Events() []*Location {
	var out []*Location
	for _, l := range g.locOrder {
		if l.IsEvent() {
			out = append(out, l)
		}
	}
	return out
}
