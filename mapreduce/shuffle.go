package mapreduce

// Grouped is the output of the shuffle phase. Keys keeps the order in which
// words were first seen; that order is what the partitioner enumerates.
type Grouped struct {
	Keys   []string
	values map[string][]int
}

// Shuffle groups pairs by word. It runs on a single goroutine after the
// map phase has joined.
func Shuffle(pairs []Pair) *Grouped {
	g := &Grouped{
		values: make(map[string][]int),
	}

	for _, p := range pairs {
		vals, seen := g.values[p.Word]
		if !seen {
			g.Keys = append(g.Keys, p.Word)
		}
		g.values[p.Word] = append(vals, p.Count)
	}

	return g
}

// Values returns the values grouped under word, nil if word was never seen.
func (g *Grouped) Values(word string) []int {
	return g.values[word]
}

func (g *Grouped) Len() int {
	return len(g.Keys)
}

// Entries returns the groups in key order.
func (g *Grouped) Entries() []GroupedEntry {
	entries := make([]GroupedEntry, 0, len(g.Keys))
	for _, k := range g.Keys {
		entries = append(entries, GroupedEntry{Word: k, Values: g.values[k]})
	}

	return entries
}
