package mapreduce

import (
	"context"
	"math"
)

// ctxCheckEvery is how many items the default funcs process between
// checks of ctx.
const ctxCheckEvery = 1 << 14

// CountWords is the default MapFunc: one (word, 1) pair per token.
func CountWords(ctx context.Context, chunk Chunk) ([]Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words, err := Tokenize(chunk.Text)
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, len(words))
	for i, w := range words {
		if i%ctxCheckEvery == ctxCheckEvery-1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		pairs = append(pairs, Pair{Word: w, Count: 1})
	}

	return pairs, nil
}

// Sum is the default ReduceFunc. It fails with ErrOverflow instead of
// wrapping around.
func Sum(ctx context.Context, _ string, values []int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	total := 0
	for i, v := range values {
		if i%ctxCheckEvery == ctxCheckEvery-1 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if (v > 0 && total > math.MaxInt-v) || (v < 0 && total < math.MinInt-v) {
			return 0, ErrOverflow
		}
		total += v
	}

	return total, nil
}
