package mapreduce

import "context"

// MapFunc turns one chunk of the document into (word, count) pairs. Pairs
// must be returned in the order the words appear in the chunk.
type MapFunc func(ctx context.Context, chunk Chunk) ([]Pair, error)

// ReduceFunc folds all values grouped under word into the word's total.
type ReduceFunc func(ctx context.Context, word string, values []int) (int, error)

// Chunk is a contiguous piece of the document, Text == doc[Start:End].
type Chunk struct {
	ID    int
	Start int
	End   int
	Text  string
}

type Pair struct {
	Word  string
	Count int
}

type GroupedEntry struct {
	Word   string
	Values []int
}

type FinalCount struct {
	Word  string
	Total int
}

// Assignment maps reducer slot index to the words that slot owns.
type Assignment [][]string

type mapResult struct {
	chunkID int
	pairs   []Pair
}

type reduceResult struct {
	word  string
	total int
}
