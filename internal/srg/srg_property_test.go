//go:build property
// +build property

package srg

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/stigaview/stigaview/internal/model"
)

// TestAggregationProperties checks that merge order never changes membership.
func TestAggregationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("merge order does not change per-id multisets", prop.ForAll(
		func(ids []int, seed int64) bool {
			contributions := make([]Contribution, 0, len(ids))
			for i, id := range ids {
				var c Contribution
				c.Add(fmt.Sprintf("SRG-%d", id%7), &model.Control{DisaStigID: fmt.Sprintf("C-%d", i)})
				c.Add(fmt.Sprintf("SRG-%d", id%3), &model.Control{DisaStigID: fmt.Sprintf("D-%d", i)})
				contributions = append(contributions, c)
			}

			shuffled := append([]Contribution(nil), contributions...)
			rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			var incremental Map
			for _, c := range shuffled {
				incremental = Merge(incremental, c)
			}
			reduced := Reduce(contributions...)

			if len(incremental) != len(reduced) {
				return false
			}
			for id, controls := range reduced {
				if !sameMultiset(controls, incremental[id]) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func sameMultiset(a, b []*model.Control) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[*model.Control]int, len(a))
	for _, c := range a {
		counts[c]++
	}
	for _, c := range b {
		counts[c]--
		if counts[c] < 0 {
			return false
		}
	}
	return true
}
