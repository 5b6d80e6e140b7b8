// Package predicate implements the boolean guards placed on region exits.
// A predicate is an immutable tree of Has leaves joined by And and Or; it is
// evaluated fresh against every inventory it is given.
package predicate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/yokulogic/engine/inventory"
)

// Predicate is a pure function of an inventory.
type Predicate interface {
	Eval(inv inventory.Inventory) bool
	String() string
}

// Has is true when the inventory holds at least Count copies of Item.
// A Count below 1 means 1.
type Has struct {
	Item  string
	Count int
}

// And is true when every child is true. An empty And is true.
type And []Predicate

// Or is true when any child is true. An empty Or is false.
type Or []Predicate

// Free guards an exit that is always open.
var Free Predicate = And{}

// HasItem returns Has{item, 1}.
func HasItem(item string) Has {
	return Has{Item: item, Count: 1}
}

// HasN returns Has{item, n}.
func HasN(item string, n int) Has {
	return Has{Item: item, Count: n}
}

// All builds an And.
func All(children ...Predicate) And {
	return And(children)
}

// Any builds an Or.
func Any(children ...Predicate) Or {
	return Or(children)
}

func (h Has) Eval(inv inventory.Inventory) bool {
	return inv.Count(h.Item) >= h.need()
}

func (h Has) need() int {
	if h.Count < 1 {
		return 1
	}
	return h.Count
}

func (a And) Eval(inv inventory.Inventory) bool {
	for _, c := range a {
		if !c.Eval(inv) {
			return false
		}
	}
	return true
}

func (o Or) Eval(inv inventory.Inventory) bool {
	for _, c := range o {
		if c.Eval(inv) {
			return true
		}
	}
	return false
}

// String renders the leaf in the rules file syntax.
func (h Has) String() string {
	if h.need() == 1 {
		return "Has(" + strconv.Quote(h.Item) + ")"
	}
	return "Has(" + strconv.Quote(h.Item) + ", " + strconv.Itoa(h.Count) + ")"
}

func (a And) String() string {
	if len(a) == 0 {
		return "Free"
	}
	return "And(" + join(a) + ")"
}

func (o Or) String() string {
	return "Or(" + join(o) + ")"
}

func join(ps []Predicate) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// Eval evaluates p, treating a nil predicate as always true.
func Eval(p Predicate, inv inventory.Inventory) bool {
	if p == nil {
		return true
	}
	return p.Eval(inv)
}

// Walk calls fn for every Has leaf in p, depth first.
func Walk(p Predicate, fn func(Has)) {
	switch n := p.(type) {
	case Has:
		fn(n)
	case *Has:
		if n != nil {
			fn(*n)
		}
	case And:
		for _, c := range n {
			Walk(c, fn)
		}
	case Or:
		for _, c := range n {
			Walk(c, fn)
		}
	}
}

// Items returns the distinct item names referenced by p, sorted.
func Items(p Predicate) []string {
	seen := map[string]bool{}
	Walk(p, func(h Has) { seen[h.Item] = true })
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
