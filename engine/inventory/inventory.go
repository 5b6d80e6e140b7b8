// Package inventory holds collected item counts. Unknown names always count
// zero, so evaluation over any inventory is total.
package inventory

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Inventory is the read-only view the logic needs.
type Inventory interface {
	Count(item string) int
}

// Counts is a map-backed inventory. The zero value is an empty inventory.
type Counts map[string]int

// Count returns how many of item are held. Unset items return 0.
func (c Counts) Count(item string) int {
	return c[item]
}

// Add increases the count of item by n.
func (c Counts) Add(item string, n int) {
	if n <= 0 {
		return
	}
	c[item] += n
}

// Remove decreases the count of item by n, never below zero.
func (c Counts) Remove(item string, n int) {
	left := c[item] - n
	if left <= 0 {
		delete(c, item)
		return
	}
	c[item] = left
}

// Clone returns an independent copy.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for k, v := range c {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// Total returns the number of held items, counting copies.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		if v > 0 {
			n += v
		}
	}
	return n
}

// Names returns the held item names in sorted order.
func (c Counts) Names() []string {
	names := make([]string, 0, len(c))
	for k, v := range c {
		if v > 0 {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Fingerprint returns a stable digest of the held counts. Two inventories
// with the same positive counts share a fingerprint. Names are quoted so no
// name can imitate a pair separator.
func (c Counts) Fingerprint() string {
	var b strings.Builder
	for _, name := range c.Names() {
		b.WriteString(strconv.Quote(name))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(c[name]))
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Overlay adds Extra on top of a Base inventory without touching it.
type Overlay struct {
	Base  Inventory
	Extra Counts
}

// Count returns the combined count.
func (o Overlay) Count(item string) int {
	n := o.Extra[item]
	if o.Base != nil {
		n += o.Base.Count(item)
	}
	return n
}
