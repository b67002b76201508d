package mapreduce

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionersAssignEveryKeyOnce(t *testing.T) {
	keys := make([]string, 0, 200)
	for i := range 200 {
		keys = append(keys, fmt.Sprintf("word%d", i))
	}

	partitioners := map[string]Partitioner{
		"roundrobin": RoundRobin{},
		"hash":       Hash{},
	}

	for name, p := range partitioners {
		for slots := 1; slots <= 7; slots++ {
			t.Run(fmt.Sprintf("%s/%d", name, slots), func(t *testing.T) {
				a := p.Assign(keys, slots)
				require.Len(t, a, slots)

				owner := make(map[string]int)
				for slot, ws := range a {
					for _, w := range ws {
						prev, dup := owner[w]
						require.False(t, dup, "%q in slots %d and %d", w, prev, slot)
						owner[w] = slot
					}
				}
				require.Len(t, owner, len(keys))
			})
		}
	}
}

func TestRoundRobinBalances(t *testing.T) {
	a := RoundRobin{}.Assign([]string{"a", "b", "c", "d", "e"}, 2)
	require.Len(t, a[0], 3)
	require.Len(t, a[1], 2)
}

func TestHashIsStable(t *testing.T) {
	a := Hash{}.Assign([]string{"fox", "the"}, 5)
	b := Hash{}.Assign([]string{"the", "fox", "quick"}, 5)

	slotOf := func(a Assignment, word string) int {
		for s, ws := range a {
			for _, w := range ws {
				if w == word {
					return s
				}
			}
		}
		return -1
	}

	require.Equal(t, slotOf(a, "fox"), slotOf(b, "fox"))
	require.Equal(t, slotOf(a, "the"), slotOf(b, "the"))
}

func TestParsePartitioner(t *testing.T) {
	p, err := ParsePartitioner("")
	require.NoError(t, err)
	require.Equal(t, RoundRobin{}, p)

	p, err = ParsePartitioner("Hash")
	require.NoError(t, err)
	require.Equal(t, Hash{}, p)

	_, err = ParsePartitioner("random")
	require.Error(t, err)
}
