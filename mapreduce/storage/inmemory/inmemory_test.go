package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tymbaca/wordfreq/mapreduce"
)

var _ mapreduce.Storage = (*Storage)(nil)

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	st := New()

	_, err := st.Load(ctx, "b")
	require.ErrorIs(t, err, mapreduce.ErrRunNotFound)

	in := map[string]int{"a": 1}
	require.NoError(t, st.Save(ctx, "b", in))
	require.NoError(t, st.Save(ctx, "a", nil))

	// the stored mapping is a copy
	in["a"] = 100

	counts, err := st.Load(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 1}, counts)

	counts["x"] = 1
	counts, err = st.Load(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 1}, counts)

	counts, err = st.Load(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, counts)
	require.Empty(t, counts)

	runs, err := st.Runs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, runs)
}
