package mapreduce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{}},
		{name: "only delimiters", in: " ,.!?\n\t-- ", want: []string{}},
		{name: "case folding", in: "The quick brown fox the Fox", want: []string{"the", "quick", "brown", "fox", "the", "fox"}},
		{name: "punctuation", in: "Hello, world! It's...fine.", want: []string{"hello", "world", "it", "s", "fine"}},
		{name: "digits and underscore", in: "x_train=42; y2k", want: []string{"x_train", "42", "y2k"}},
		{name: "unicode letters", in: "Привіт, СВІТ! Straße café", want: []string{"привіт", "світ", "straße", "café"}},
		{name: "hyphen splits", in: "well-known", want: []string{"well", "known"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Tokenize(c.in)
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestTokenizeInvalidUTF8(t *testing.T) {
	_, err := Tokenize("ok \xff\xfe broken")
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestCountWords(t *testing.T) {
	pairs, err := CountWords(context.Background(), Chunk{Text: "b a b"})
	require.NoError(t, err)
	require.Equal(t, []Pair{{"b", 1}, {"a", 1}, {"b", 1}}, pairs)
}

func TestSum(t *testing.T) {
	ctx := context.Background()

	total, err := Sum(ctx, "w", []int{1, 1, 3})
	require.NoError(t, err)
	require.Equal(t, 5, total)

	total, err = Sum(ctx, "w", nil)
	require.NoError(t, err)
	require.Equal(t, 0, total)

	_, err = Sum(ctx, "w", []int{maxInt, 1})
	require.ErrorIs(t, err, ErrOverflow)

	_, err = Sum(ctx, "w", []int{-maxInt, -2})
	require.ErrorIs(t, err, ErrOverflow)
}

const maxInt = int(^uint(0) >> 1)

func TestDefaultFuncsStopOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CountWords(ctx, Chunk{Text: "a b c"})
	require.ErrorIs(t, err, context.Canceled)

	_, err = Sum(ctx, "a", make([]int, 2*ctxCheckEvery))
	require.ErrorIs(t, err, context.Canceled)
}
