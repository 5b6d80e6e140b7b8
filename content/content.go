// Package content embeds the item table, the location table and the region
// rules, and decodes the two tables.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/yokulogic/engine/graph"
	"github.com/nathoo/yokulogic/engine/inventory"
	"github.com/nathoo/yokulogic/types"
)

// FS holds items.yaml, locations.yaml and rules/*.lua.
//
//go:embed items.yaml locations.yaml rules/*.lua
var FS embed.FS

// RulesDir is the directory of the rule files inside a content FS.
const RulesDir = "rules"

// Tables is the decoded item and location tables.
type Tables struct {
	Items     []types.ItemDef
	Locations []types.LocationDef

	items     map[string]int
	aliases   map[string]int
	locations map[string]int
	regions   []string
	byRegion  map[string][]int
}

// Load decodes items.yaml and locations.yaml from fsys.
func Load(fsys fs.FS) (*Tables, error) {
	t := &Tables{}
	if err := decode(fsys, "items.yaml", &t.Items); err != nil {
		return nil, err
	}
	if err := decode(fsys, "locations.yaml", &t.Locations); err != nil {
		return nil, err
	}
	if err := t.index(); err != nil {
		return nil, err
	}
	return t, nil
}

// Default decodes the embedded tables.
func Default() (*Tables, error) {
	return Load(FS)
}

func decode(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

var itemTypes = map[types.ItemType]bool{
	types.ItemNormal:      true,
	types.ItemProgression: true,
	types.ItemJunk:        true,
}

var itemGroups = map[types.ItemGroup]bool{
	types.GroupCollectible: true,
	types.GroupFruit:       true,
	types.GroupMovement:    true,
	types.GroupTracker:     true,
	types.GroupKeys:        true,
	types.GroupQuest:       true,
	types.GroupMisc:        true,
}

// index builds the lookup maps and rejects inconsistent rows.
func (t *Tables) index() error {
	ve := &graph.ValidationError{}
	t.items = map[string]int{}
	t.aliases = map[string]int{}
	t.locations = map[string]int{}
	t.byRegion = map[string][]int{}

	ids := map[int64]string{}
	for i, it := range t.Items {
		switch {
		case it.Name == "":
			ve.Errorf("item %d has no name", i)
			continue
		case !itemTypes[it.Type]:
			ve.Errorf("item %q has unknown type %q", it.Name, it.Type)
		case !itemGroups[it.Group]:
			ve.Errorf("item %q has unknown group %q", it.Name, it.Group)
		case it.Count < 0:
			ve.Errorf("item %q has negative count %d", it.Name, it.Count)
		}
		if _, dup := t.items[it.Name]; dup {
			ve.Errorf("duplicate item %q", it.Name)
		}
		if prev, dup := ids[it.ID]; dup {
			ve.Errorf("items %q and %q share id %d", prev, it.Name, it.ID)
		}
		ids[it.ID] = it.Name
		t.items[it.Name] = i
		for _, a := range it.Aliases {
			if prev, dup := t.aliases[a]; dup {
				ve.Errorf("alias %q used by %q and %q", a, t.Items[prev].Name, it.Name)
			}
			t.aliases[a] = i
		}
	}

	ids = map[int64]string{}
	for i, loc := range t.Locations {
		switch {
		case loc.Name == "":
			ve.Errorf("location %d has no name", i)
			continue
		case loc.Region == "":
			ve.Errorf("location %q has no region", loc.Name)
		case loc.ID == 0:
			ve.Errorf("location %q has id 0, which marks event locations", loc.Name)
		}
		if _, dup := t.locations[loc.Name]; dup {
			ve.Errorf("duplicate location %q", loc.Name)
		}
		if prev, dup := ids[loc.ID]; dup {
			ve.Errorf("locations %q and %q share id %d", prev, loc.Name, loc.ID)
		}
		ids[loc.ID] = loc.Name
		t.locations[loc.Name] = i
		if _, seen := t.byRegion[loc.Region]; !seen {
			t.regions = append(t.regions, loc.Region)
		}
		t.byRegion[loc.Region] = append(t.byRegion[loc.Region], i)
	}

	return ve.Err()
}

// Item looks an item up by name.
func (t *Tables) Item(name string) (types.ItemDef, bool) {
	i, ok := t.items[name]
	if !ok {
		return types.ItemDef{}, false
	}
	return t.Items[i], true
}

// ItemByAlias looks an item up by its save-file id.
func (t *Tables) ItemByAlias(alias string) (types.ItemDef, bool) {
	i, ok := t.aliases[alias]
	if !ok {
		return types.ItemDef{}, false
	}
	return t.Items[i], true
}

// IsItem reports whether name is a known item.
func (t *Tables) IsItem(name string) bool {
	_, ok := t.items[name]
	return ok
}

// Location looks a location up by name.
func (t *Tables) Location(name string) (types.LocationDef, bool) {
	i, ok := t.locations[name]
	if !ok {
		return types.LocationDef{}, false
	}
	return t.Locations[i], true
}

// Regions returns the regions holding locations, in table order.
func (t *Tables) Regions() []string {
	return t.regions
}

// LocationsIn returns the locations held by region, in table order.
func (t *Tables) LocationsIn(region string) []types.LocationDef {
	idx := t.byRegion[region]
	out := make([]types.LocationDef, len(idx))
	for i, j := range idx {
		out[i] = t.Locations[j]
	}
	return out
}

// Pool returns the whole item pool as an inventory.
func (t *Tables) Pool() inventory.Counts {
	inv := inventory.Counts{}
	for _, it := range t.Items {
		inv.Add(it.Name, it.Count)
	}
	return inv
}

// Progression returns the progression items, sorted by name.
func (t *Tables) Progression() []types.ItemDef {
	var out []types.ItemDef
	for _, it := range t.Items {
		if Classify(it.Type) == types.Progression {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Group returns the items of group in table order.
func (t *Tables) Group(group types.ItemGroup) []types.ItemDef {
	var out []types.ItemDef
	for _, it := range t.Items {
		if it.Group == group {
			out = append(out, it)
		}
	}
	return out
}

// Classify returns the classification of a named item. Unknown names are
// filler.
func (t *Tables) Classify(name string) types.Classification {
	it, ok := t.Item(name)
	if !ok {
		return types.Filler
	}
	return Classify(it.Type)
}

// Classify maps an item type to its classification.
func Classify(typ types.ItemType) types.Classification {
	switch typ {
	case types.ItemProgression:
		return types.Progression
	case types.ItemJunk:
		return types.Filler
	default:
		return types.Useful
	}
}
