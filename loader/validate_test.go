package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/yokulogic/engine/predicate"
	"github.com/nathoo/yokulogic/types"
)

// validRules returns a minimal valid RuleSet for testing.
func validRules() *RuleSet {
	all := map[types.Mode]predicate.Predicate{}
	for _, m := range types.Modes {
		all[m] = predicate.HasItem("Key")
	}
	return &RuleSet{
		Root:    "Menu",
		Goal:    "Win",
		Regions: []string{"Win"},
		Connections: []Connection{
			{From: "Menu", To: "Win", Rules: all, File: "game.lua"},
		},
		Events: []EventDef{{Region: "Win", Location: "Victory", Item: "Victory"}},
	}
}

func validationErrors(t *testing.T, rs *RuleSet) []string {
	t.Helper()
	err := validate(rs)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	return ve.Errors
}

func TestValidate_ValidRules(t *testing.T) {
	rs := validRules()
	if err := validate(rs); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(rs.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", rs.Warnings)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(rs *RuleSet)
		want   string
	}{
		{"missing root", func(rs *RuleSet) { rs.Root = "" }, "Game.root is required"},
		{"missing goal", func(rs *RuleSet) { rs.Goal = "" }, "Game.goal is required"},
		{"duplicate region", func(rs *RuleSet) { rs.Regions = append(rs.Regions, "Win") }, `region "Win" declared twice`},
		{"self loop", func(rs *RuleSet) {
			rs.Connections = append(rs.Connections, Connection{From: "Win", To: "Win", Rules: rs.Connections[0].Rules, File: "x.lua"})
		}, "loops onto itself"},
		{"duplicate connection", func(rs *RuleSet) {
			c := rs.Connections[0]
			c.File = "other.lua"
			rs.Connections = append(rs.Connections, c)
		}, "already defined in game.lua"},
		{"reverse clashes with two way", func(rs *RuleSet) {
			rs.Connections[0].TwoWay = true
			rs.Connections = append(rs.Connections, Connection{From: "Win", To: "Menu", Rules: rs.Connections[0].Rules, File: "z.lua"})
		}, "connection Win -> Menu already defined"},
		{"zero count", func(rs *RuleSet) {
			rs.Connections[0].Rules = map[types.Mode]predicate.Predicate{types.ModeNormal: predicate.HasN("Key", 0)}
		}, `(normal) requires 0 of "Key"`},
		{"empty event", func(rs *RuleSet) { rs.Events = append(rs.Events, EventDef{Region: "Win"}) }, "needs a region, a location and an item"},
		{"duplicate event", func(rs *RuleSet) { rs.Events = append(rs.Events, rs.Events[0]) }, `event location "Victory" defined twice`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := validRules()
			tt.mutate(rs)
			errs := validationErrors(t, rs)
			if !strings.Contains(strings.Join(errs, "\n"), tt.want) {
				t.Errorf("errors = %v, want %q", errs, tt.want)
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	rs := validRules()
	rs.Connections = append(rs.Connections,
		Connection{From: "Win", To: "Menu", Rules: map[types.Mode]predicate.Predicate{}, File: "a.lua"},
		Connection{From: "Menu", To: "Cave", Rules: map[types.Mode]predicate.Predicate{
			types.ModeHard: predicate.Free,
		}, File: "b.lua"},
	)

	if err := validate(rs); err != nil {
		t.Fatalf("warnings should not fail validation: %v", err)
	}
	joined := strings.Join(rs.Warnings, "\n")
	for _, want := range []string{
		"connection Win -> Menu exists in no mode",
		"connection Menu -> Cave exists in hard but not in normal",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing warning %q in:\n%s", want, joined)
		}
	}
}
