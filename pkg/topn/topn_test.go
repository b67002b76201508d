package topn

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tymbaca/wordfreq/mapreduce"
)

func TestTop(t *testing.T) {
	counts := map[string]int{"the": 2, "quick": 1, "brown": 1, "fox": 2, "a": 7}

	require.Equal(t, []mapreduce.FinalCount{
		{Word: "a", Total: 7},
		{Word: "fox", Total: 2},
		{Word: "the", Total: 2},
	}, Top(counts, 3))

	require.Len(t, Top(counts, 100), len(counts))
	require.Empty(t, Top(counts, 0))
	require.Empty(t, Top(counts, -1))
	require.Empty(t, Top(nil, 10))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer

	err := Render(&buf, "Top 2", []mapreduce.FinalCount{
		{Word: "the", Total: 4},
		{Word: "a", Total: 2},
	}, 4)
	require.NoError(t, err)

	require.Equal(t, "Top 2\nthe ████ 4\na   ██ 2\n", buf.String())
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, "Top 10", nil, 40))
	require.Equal(t, "Top 10\n(no words)\n", buf.String())
}

func TestRenderRejectsWidth(t *testing.T) {
	top := []mapreduce.FinalCount{{Word: "a", Total: 3}}

	for _, width := range []int{0, -5} {
		require.ErrorContains(t, Render(io.Discard, "t", top, width), "width must be positive")
	}
}
