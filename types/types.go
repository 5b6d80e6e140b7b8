// Package types defines the shared data structures for the yokulogic packages:
// item and location identity records, the logic mode selector, and the
// intent/result pair used by the explorer.
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ItemType is the kind of an item as recorded in the item table.
type ItemType string

const (
	ItemNormal      ItemType = "normal"
	ItemProgression ItemType = "progression"
	ItemJunk        ItemType = "junk"
)

// ItemGroup is the broad category an item belongs to.
type ItemGroup string

const (
	GroupCollectible ItemGroup = "collectible"
	GroupFruit       ItemGroup = "fruit"
	GroupMovement    ItemGroup = "movement"
	GroupTracker     ItemGroup = "tracker"
	GroupKeys        ItemGroup = "keys"
	GroupQuest       ItemGroup = "quest"
	GroupMisc        ItemGroup = "misc"
)

// Classification is the logical weight of an item.
type Classification string

const (
	Progression Classification = "progression"
	Useful      Classification = "useful"
	Filler      Classification = "filler"
)

// ItemDef is one row of the item table.
type ItemDef struct {
	Name    string    `yaml:"name" json:"name"`
	ID      int64     `yaml:"id" json:"id"`
	Count   int       `yaml:"count" json:"count"`
	Type    ItemType  `yaml:"type" json:"type"`
	Group   ItemGroup `yaml:"group" json:"group"`
	Aliases []string  `yaml:"aliases" json:"aliases,omitempty"`
}

// LocationDef is one row of the location table.
type LocationDef struct {
	Name       string `yaml:"name" json:"name"`
	ID         int64  `yaml:"id" json:"id"`
	Region     string `yaml:"region" json:"region"`
	Tracker    uint64 `yaml:"tracker" json:"tracker,omitempty"`
	TrackerPos string `yaml:"tracker_pos" json:"tracker_pos,omitempty"`
	Revealed   bool   `yaml:"revealed" json:"revealed,omitempty"`
}

// Mode selects one of the three rule variants.
type Mode int

const (
	ModeNormal Mode = iota
	ModeHard
	ModeVeryHard
)

// Modes lists every mode from easiest to hardest.
var Modes = []Mode{ModeNormal, ModeHard, ModeVeryHard}

// ErrUnknownMode is returned for a mode selector outside the known range.
var ErrUnknownMode = errors.New("unknown mode")

var modeNames = [...]string{"normal", "hard", "very_hard"}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m >= ModeNormal && m <= ModeVeryHard
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts a mode name ("very hard" and "very-hard" work too) or
// its option number.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for i, name := range modeNames {
		if key == name {
			return Mode(i), nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil && Mode(n).Valid() {
		return Mode(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Intent is the parsed representation of an explorer command.
type Intent struct {
	Verb   string
	Object string // optional
	Count  int    // 0 when not given; -1 means "all"
}

// Result is the output of a single explorer step.
type Result struct {
	Output []string
	Trace  []string
}
