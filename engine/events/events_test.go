package events

import (
	"testing"

	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/yokulogic/engine/graph"
	"github.com/nathoo/yokulogic/engine/inventory"
	"github.com/nathoo/yokulogic/engine/predicate"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New("menu", "win")
	for _, n := range []string{"menu", "tower", "win"} {
		if _, err := g.AddRegion(n); err != nil {
			t.Fatal(err)
		}
	}
	g.ConnectNames("menu", "tower", predicate.Free, true)
	g.ConnectNames("tower", "win", predicate.HasItem("Crystal Lit"), false)
	if _, err := g.AddEventLocation("tower", "Tower Crystal", "Crystal Lit"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEventLocation("win", "Victory", "Victory"); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestCollect_FiresReachedEvents(t *testing.T) {
	g := testGraph(t)
	reached := mapset.Of("menu", "tower")
	done := mapset.New[string]()
	got := inventory.Counts{}

	fired := Collect(g, reached, done, got)
	if len(fired) != 1 || fired[0] != "Tower Crystal" {
		t.Fatalf("fired = %v, want [Tower Crystal]", fired)
	}
	if got.Count("Crystal Lit") != 1 {
		t.Errorf("Crystal Lit count = %d", got.Count("Crystal Lit"))
	}
	if got.Count("Victory") != 0 {
		t.Error("unreached event should not fire")
	}
	if !done.Has("Tower Crystal") {
		t.Error("fired location should be marked done")
	}
}

func TestCollect_SinglePass(t *testing.T) {
	g := testGraph(t)
	reached := mapset.Of("menu", "tower")
	done := mapset.New[string]()
	got := inventory.Counts{}

	Collect(g, reached, done, got)
	fired := Collect(g, reached, done, got)
	if len(fired) != 0 {
		t.Errorf("second pass fired %v", fired)
	}
	if got.Count("Crystal Lit") != 1 {
		t.Errorf("event item counted twice: %d", got.Count("Crystal Lit"))
	}
}

func TestCollect_NothingReached(t *testing.T) {
	g := testGraph(t)
	got := inventory.Counts{}
	fired := Collect(g, mapset.New[string](), mapset.New[string](), got)
	if len(fired) != 0 || got.Total() != 0 {
		t.Errorf("fired = %v, got = %v", fired, got)
	}
}
