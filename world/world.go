// Package world joins the item and location tables with the region rules
// and builds the region graph for a logic mode.
package world

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"

	"github.com/nathoo/yokulogic/content"
	"github.com/nathoo/yokulogic/engine/graph"
	"github.com/nathoo/yokulogic/loader"
	"github.com/nathoo/yokulogic/types"
)

// World is the loaded game content.
type World struct {
	Tables *content.Tables
	Rules  *loader.RuleSet
	// Digest identifies the files the world was loaded from.
	Digest string
}

// Load reads the tables and the rules directory from fsys.
func Load(fsys fs.FS) (*World, error) {
	tables, err := content.Load(fsys)
	if err != nil {
		return nil, fmt.Errorf("loading tables: %w", err)
	}
	rules, err := loader.Load(fsys, content.RulesDir)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	sum, err := digest(fsys)
	if err != nil {
		return nil, fmt.Errorf("hashing content: %w", err)
	}
	return &World{Tables: tables, Rules: rules, Digest: sum}, nil
}

// digest hashes the tables and rule files by name and content.
func digest(fsys fs.FS) (string, error) {
	rules, err := fs.Glob(fsys, path.Join(content.RulesDir, "*.lua"))
	if err != nil {
		return "", err
	}
	sort.Strings(rules)
	h := sha256.New()
	for _, name := range append([]string{"items.yaml", "locations.yaml"}, rules...) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%q %d\n", name, len(data))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

// Default loads the embedded content.
func Default() (*World, error) {
	return Load(content.FS)
}

// Build creates the region graph for mode. Regions holding locations come
// first in table order, then the regions declared by the rules. Every
// problem found is reported in one *graph.ValidationError.
func (w *World) Build(mode types.Mode) (*graph.Graph, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("building graph: %w: %s", types.ErrUnknownMode, mode)
	}

	g := graph.New(w.Rules.Root, w.Rules.Goal)
	ve := &graph.ValidationError{}

	for _, name := range w.Tables.Regions() {
		if _, err := g.AddRegion(name, w.Tables.LocationsIn(name)...); err != nil {
			ve.Errorf("%v", err)
		}
	}
	for _, name := range w.Rules.Regions {
		if _, err := g.AddRegion(name); err != nil {
			ve.Errorf("%v", err)
		}
	}

	for _, c := range w.Rules.Connections {
		rule, ok := c.Rule(mode)
		if !ok {
			continue
		}
		if err := g.ConnectNames(c.From, c.To, rule, c.TwoWay); err != nil {
			ve.Errorf("%s: %v", c.File, err)
		}
	}

	for _, e := range w.Rules.Events {
		if _, err := g.AddEventLocation(e.Region, e.Location, e.Item); err != nil {
			ve.Errorf("%v", err)
		}
	}

	g.Check(w.Tables.IsItem, ve)

	// Harder modes cut some regions off on purpose.
	for _, warning := range ve.Warnings {
		slog.Debug("graph warning", "mode", mode.String(), "warning", warning)
	}

	if err := ve.Err(); err != nil {
		return nil, fmt.Errorf("building %s graph: %w", mode, err)
	}
	return g, nil
}

// BuildAll builds the graph of every mode.
func (w *World) BuildAll() (map[types.Mode]*graph.Graph, error) {
	out := make(map[types.Mode]*graph.Graph, len(types.Modes))
	for _, m := range types.Modes {
		g, err := w.Build(m)
		if err != nil {
			return nil, err
		}
		out[m] = g
	}
	return out, nil
}
