package engine

import (
	"slices"

	"github.com/nathoo/yokulogic/engine/graph"
	"github.com/nathoo/yokulogic/engine/inventory"
)

// OrderMismatch is a shuffled sweep that disagreed with the ordered one.
// Seed replays it with NewShuffled; Draws is how many draws the sweep made.
type OrderMismatch struct {
	Seed  int64
	Draws int64
	Got   []string
	Want  []string
}

// VerifyOrder sweeps inv once in graph order and once per seed in shuffled
// order, and returns the first shuffled result that differs, or nil.
func VerifyOrder(g *graph.Graph, inv inventory.Inventory, seeds []int64) *OrderMismatch {
	want := New(g).Sweep(inv).Names()
	for _, seed := range seeds {
		e := NewShuffled(g, seed)
		got := e.Sweep(inv).Names()
		if !slices.Equal(got, want) {
			return &OrderMismatch{Seed: e.RNG().Seed(), Draws: e.RNG().Position(), Got: got, Want: want}
		}
	}
	return nil
}
