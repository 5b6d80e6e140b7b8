// Package service answers reachability questions for every mode and caches
// the answers by mode and inventory.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/nathoo/yokulogic/engine"
	"github.com/nathoo/yokulogic/engine/graph"
	"github.com/nathoo/yokulogic/engine/inventory"
	"github.com/nathoo/yokulogic/types"
	"github.com/nathoo/yokulogic/world"
)

const keyPrefix = "yokulogic:check:"

// Report is the answer to one Check.
type Report struct {
	Mode           string   `json:"mode"`
	Fingerprint    string   `json:"fingerprint"`
	Regions        []string `json:"regions"`
	Locations      []string `json:"locations"`
	Events         []string `json:"events,omitempty"`
	Goal           bool     `json:"goal"`
	TotalRegions   int      `json:"total_regions"`
	TotalLocations int      `json:"total_locations"`
	UnknownItems   []string `json:"unknown_items,omitempty"`
}

// HasRegion reports whether region is in the report.
func (r *Report) HasRegion(region string) bool {
	i := sort.SearchStrings(r.Regions, region)
	return i < len(r.Regions) && r.Regions[i] == region
}

// Service holds one graph per mode. It is safe for concurrent use.
type Service struct {
	world   *world.World
	graphs  map[types.Mode]*graph.Graph
	engines map[types.Mode]*engine.Engine
	events  map[string]bool
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// New builds the graphs of every mode. A nil cache disables caching.
func New(w *world.World, c Cache, ttl time.Duration, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	graphs, err := w.BuildAll()
	if err != nil {
		return nil, err
	}
	s := &Service{
		world:   w,
		graphs:  graphs,
		engines: map[types.Mode]*engine.Engine{},
		events:  map[string]bool{},
		cache:   c,
		ttl:     ttl,
		logger:  logger,
	}
	for m, g := range graphs {
		s.engines[m] = engine.New(g)
	}
	for _, e := range w.Rules.Events {
		s.events[e.Item] = true
	}
	logger.Info("logic graphs built",
		"modes", len(graphs),
		"regions", len(graphs[types.ModeNormal].Regions()),
		"locations", len(w.Tables.Locations))
	return s, nil
}

// World returns the loaded content.
func (s *Service) World() *world.World {
	return s.world
}

// Graph returns the graph for mode.
func (s *Service) Graph(mode types.Mode) (*graph.Graph, error) {
	g, ok := s.graphs[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownMode, mode)
	}
	return g, nil
}

// Engine returns the engine for mode.
func (s *Service) Engine(mode types.Mode) (*engine.Engine, error) {
	e, ok := s.engines[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownMode, mode)
	}
	return e, nil
}

// Check sweeps the mode's graph under inv. Cache errors are logged and
// never fail the call.
func (s *Service) Check(ctx context.Context, mode types.Mode, inv inventory.Counts) (*Report, error) {
	e, err := s.Engine(mode)
	if err != nil {
		return nil, err
	}
	fp := inv.Fingerprint()
	key := s.cacheKey(mode, fp)
	log := s.logger.With("mode", mode.String(), "fingerprint", fp[:12])

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn("cache read failed", "error", err)
		case raw != "":
			var r Report
			if err := json.Unmarshal([]byte(raw), &r); err == nil {
				log.Debug("check cache hit")
				return &r, nil
			}
			log.Warn("dropping unreadable cache entry", "key", key)
			_ = s.cache.Del(ctx, key)
		}
	}

	r := s.compute(e, mode, inv)
	r.Fingerprint = fp
	log.Debug("check computed", "regions", len(r.Regions), "goal", r.Goal)

	if s.cache != nil {
		data, err := json.Marshal(r)
		if err == nil {
			err = s.cache.Set(ctx, key, string(data), s.ttl)
		}
		if err != nil {
			log.Warn("cache write failed", "error", err)
		}
	}
	return r, nil
}

// cacheKey scopes a report to the content version, the mode and the
// inventory, so processes loading different content can share one cache.
func (s *Service) cacheKey(mode types.Mode, fp string) string {
	return keyPrefix + s.world.Digest + ":" + mode.String() + ":" + fp
}

func (s *Service) compute(e *engine.Engine, mode types.Mode, inv inventory.Counts) *Report {
	res := e.Sweep(inv)
	g := e.Graph
	r := &Report{
		Mode:         mode.String(),
		Regions:      res.Names(),
		Events:       res.Events,
		Goal:         res.Reached(g.Goal()),
		TotalRegions: len(g.Regions()),
	}
	for _, loc := range g.Locations() {
		if loc.IsEvent() {
			continue
		}
		r.TotalLocations++
		if res.Reached(loc.Region.Name) {
			r.Locations = append(r.Locations, loc.Name)
		}
	}
	for _, name := range inv.Names() {
		if !s.world.Tables.IsItem(name) && !s.events[name] {
			r.UnknownItems = append(r.UnknownItems, name)
		}
	}
	return r
}

// LocationReachable reports whether location can be reached under inv.
func (s *Service) LocationReachable(ctx context.Context, mode types.Mode, inv inventory.Counts, location string) (bool, error) {
	g, err := s.Graph(mode)
	if err != nil {
		return false, err
	}
	loc, ok := g.Location(location)
	if !ok {
		return false, fmt.Errorf("%w: %q", graph.ErrUnknownLocation, location)
	}
	r, err := s.Check(ctx, mode, inv)
	if err != nil {
		return false, err
	}
	return r.HasRegion(loc.Region.Name), nil
}

// GoalSatisfied reports whether the goal region can be reached under inv.
func (s *Service) GoalSatisfied(ctx context.Context, mode types.Mode, inv inventory.Counts) (bool, error) {
	r, err := s.Check(ctx, mode, inv)
	if err != nil {
		return false, err
	}
	return r.Goal, nil
}

// Playthrough replays placement from inv. Playthroughs are not cached.
func (s *Service) Playthrough(ctx context.Context, mode types.Mode, inv inventory.Counts, placement map[string]string) (*engine.Playthrough, error) {
	e, err := s.Engine(mode)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Playthrough(inv, placement)
}

// Close releases the cache.
func (s *Service) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}
