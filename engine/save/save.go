// Package save implements JSON snapshots of an explorer session.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/nathoo/yokulogic/engine/inventory"
	"github.com/nathoo/yokulogic/types"
)

// FormatVersion is written into every snapshot.
const FormatVersion = "1"

// SaveData is the JSON-serializable snapshot format.
type SaveData struct {
	Version    string         `json:"version"`
	ID         string         `json:"id"`
	Mode       string         `json:"mode"`
	Inventory  map[string]int `json:"inventory"`
	CommandLog []string       `json:"command_log"`
}

// Save serializes a session to JSON bytes. Every snapshot gets a fresh ID.
func Save(mode types.Mode, inv inventory.Counts, log []string) ([]byte, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("saving: %w: %s", types.ErrUnknownMode, mode)
	}
	data := SaveData{
		Version:    FormatVersion,
		ID:         uuid.NewString(),
		Mode:       mode.String(),
		Inventory:  inv.Clone(),
		CommandLog: log,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps are never nil after load.
	if sd.Inventory == nil {
		sd.Inventory = map[string]int{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	if sd.Mode == "" {
		sd.Mode = types.ModeNormal.String()
	}
	return &sd, nil
}

// Apply returns the mode and inventory held by a snapshot. Non-positive
// counts are dropped.
func Apply(sd *SaveData) (types.Mode, inventory.Counts, error) {
	mode, err := types.ParseMode(sd.Mode)
	if err != nil {
		return 0, nil, fmt.Errorf("snapshot %s: %w", sd.ID, err)
	}
	inv := inventory.Counts{}
	for name, n := range sd.Inventory {
		inv.Add(name, n)
	}
	return mode, inv, nil
}
