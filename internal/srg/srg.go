// Package srg aggregates controls from every imported document into a
// cross-reference keyed by generic requirement (SRG) identifier.
//
// Merging is a pure reduce: the same set of contributions merged in any order
// yields the same multiset of controls per SRG id. Only list order within an id
// depends on merge order.
package srg

import (
	"maps"
	"slices"

	"github.com/stigaview/stigaview/internal/model"
)

// Entry pairs an SRG id with one control that maps onto it.
type Entry struct {
	ID      string
	Control *model.Control
}

// Contribution is the ordered set of entries produced by importing one document.
type Contribution []Entry

// Add appends an entry.
func (c *Contribution) Add(id string, control *model.Control) {
	*c = append(*c, Entry{ID: id, Control: control})
}

// Map is the cross-reference from SRG id to every control mapped onto it.
type Map map[string][]*model.Control

// Merge returns a new map holding m plus every entry of c. Neither m nor the
// slices it references are modified. Controls are never deduplicated: the same
// control id under two products yields two entries.
func Merge(m Map, c Contribution) Map {
	out := make(Map, len(m)+len(c))
	maps.Copy(out, m)
	for _, e := range c {
		// Clip forces append to allocate, leaving m's backing arrays untouched.
		out[e.ID] = append(slices.Clip(out[e.ID]), e.Control)
	}
	return out
}

// Reduce merges contributions in order into a fresh map.
func Reduce(contributions ...Contribution) Map {
	out := make(Map)
	for _, c := range contributions {
		for _, e := range c {
			out[e.ID] = append(out[e.ID], e.Control)
		}
	}
	return out
}

// IDs returns the SRG ids in ascending order.
func (m Map) IDs() []string {
	return slices.Sorted(maps.Keys(m))
}

// Controls returns the controls mapped onto id, ordered by stig then control.
// The returned slice is a copy.
func (m Map) Controls(id string) []*model.Control {
	out := slices.Clone(m[id])
	slices.SortStableFunc(out, model.CompareControlsAcrossStigs)
	return out
}

// Total returns the number of entries across all ids.
func (m Map) Total() int {
	n := 0
	for _, cs := range m {
		n += len(cs)
	}
	return n
}
