// Package loader loads the Lua region rules into Go structs at startup.
// The Lua VM is discarded after loading; no Lua runs during evaluation.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/yokulogic/engine/predicate"
	"github.com/nathoo/yokulogic/types"
)

// RuleSet is the compiled content of the rules directory.
type RuleSet struct {
	Root        string
	Goal        string
	Regions     []string // regions declared with Region, in file order
	Connections []Connection
	Events      []EventDef
	Warnings    []string
}

// Connection is one Connect block. Rules holds the guard for each mode the
// connection exists in; a mode missing from Rules has no such exit.
type Connection struct {
	From   string
	To     string
	TwoWay bool
	Rules  map[types.Mode]predicate.Predicate
	File   string
}

// Rule returns the guard for mode and whether the connection exists in it.
func (c Connection) Rule(mode types.Mode) (predicate.Predicate, bool) {
	p, ok := c.Rules[mode]
	return p, ok
}

// EventDef is one Event call.
type EventDef struct {
	Region   string
	Location string
	Item     string
}

// rawRegion holds a region table before compilation.
type rawRegion struct {
	name  string
	table *lua.LTable
	file  string
}

// rawConnection holds a connection table before compilation.
type rawConnection struct {
	from  string
	to    string
	table *lua.LTable
	file  string
}

// rawEvent holds an event before compilation.
type rawEvent struct {
	region   string
	location string
	item     string
	file     string
}

// modeKeys maps the per-mode keys of a Connect table.
var modeKeys = map[string]types.Mode{
	"normal":    types.ModeNormal,
	"hard":      types.ModeHard,
	"very_hard": types.ModeVeryHard,
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// compile converts all collected Lua data into a RuleSet.
func compile(coll *collector) (*RuleSet, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	rs := &RuleSet{
		Root: getString(coll.game, "root"),
		Goal: getString(coll.game, "goal"),
	}

	for _, raw := range coll.regions {
		if keys := regionFields(raw.table); len(keys) > 0 {
			return nil, fmt.Errorf("%s: region %s: unknown field %q", raw.file, raw.name, keys[0])
		}
		rs.Regions = append(rs.Regions, raw.name)
	}

	for _, raw := range coll.connections {
		c, err := compileConnection(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: connection %s -> %s: %w", raw.file, raw.from, raw.to, err)
		}
		rs.Connections = append(rs.Connections, c)
	}

	for _, raw := range coll.events {
		rs.Events = append(rs.Events, EventDef{
			Region:   raw.region,
			Location: raw.location,
			Item:     raw.item,
		})
	}

	return rs, nil
}

// regionFields lists the keys set on a Region table. Regions carry no
// fields, so any key is a mistake.
func regionFields(tbl *lua.LTable) []string {
	var keys []string
	tbl.ForEach(func(k, _ lua.LValue) {
		keys = append(keys, k.String())
	})
	sort.Strings(keys)
	return keys
}

// compileConnection reads a Connect table. "all" sets the guard for every
// mode and a mode key overrides it; false removes the exit from that mode.
func compileConnection(raw rawConnection) (Connection, error) {
	c := Connection{
		From:   raw.from,
		To:     raw.to,
		TwoWay: getBool(raw.table, "two_way", false),
		Rules:  map[types.Mode]predicate.Predicate{},
		File:   raw.file,
	}

	var err error
	raw.table.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("unexpected positional value %s", v.String())
			return
		}
		switch string(key) {
		case "two_way":
			if _, ok := v.(lua.LBool); !ok {
				err = fmt.Errorf("two_way must be a boolean")
			}
		case "all", "normal", "hard", "very_hard":
		default:
			err = fmt.Errorf("unknown field %q", string(key))
		}
	})
	if err != nil {
		return c, err
	}

	if all := raw.table.RawGetString("all"); all != lua.LNil {
		p, present, err := compileGuard(all)
		if err != nil {
			return c, fmt.Errorf("all: %w", err)
		}
		if present {
			for _, m := range types.Modes {
				c.Rules[m] = p
			}
		}
	}

	for key, mode := range modeKeys {
		v := raw.table.RawGetString(key)
		if v == lua.LNil {
			continue
		}
		p, present, err := compileGuard(v)
		if err != nil {
			return c, fmt.Errorf("%s: %w", key, err)
		}
		if present {
			c.Rules[mode] = p
		} else {
			delete(c.Rules, mode)
		}
	}

	return c, nil
}

// compileGuard reads a guard value: false means no exit, a predicate table
// means a guarded exit.
func compileGuard(v lua.LValue) (predicate.Predicate, bool, error) {
	if b, ok := v.(lua.LBool); ok {
		if bool(b) {
			return predicate.Free, true, nil
		}
		return nil, false, nil
	}
	p, err := compilePredicate(v)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// compilePredicate converts a helper table built by Has, And, Or or Free.
func compilePredicate(v lua.LValue) (predicate.Predicate, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected a predicate, got %s", v.Type().String())
	}
	switch kind := getString(tbl, "type"); kind {
	case "free":
		return predicate.Free, nil
	case "has":
		item := getString(tbl, "item")
		if item == "" {
			return nil, fmt.Errorf("Has() needs an item name")
		}
		return predicate.HasN(item, getInt(tbl, "count")), nil
	case "and", "or":
		children := getTable(tbl, "children")
		var ps []predicate.Predicate
		if children != nil {
			for i := 1; i <= children.MaxN(); i++ {
				p, err := compilePredicate(children.RawGetInt(i))
				if err != nil {
					return nil, fmt.Errorf("%s[%d]: %w", kind, i, err)
				}
				ps = append(ps, p)
			}
		}
		if kind == "and" {
			return predicate.All(ps...), nil
		}
		return predicate.Any(ps...), nil
	default:
		return nil, fmt.Errorf("unknown predicate type %q", kind)
	}
}

// sortedLuaFiles orders files with game.lua first and the rest alphabetical.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
