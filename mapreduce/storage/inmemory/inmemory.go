package inmemory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/tymbaca/wordfreq/mapreduce"
	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
)

type Storage struct {
	mu   sync.RWMutex
	runs map[string]map[string]int
}

func New() *Storage {
	return &Storage{
		runs: make(map[string]map[string]int),
	}
}

func (st *Storage) Save(ctx context.Context, run string, counts map[string]int) error {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.Lock()
	defer st.mu.Unlock()

	c := maps.Clone(counts)
	if c == nil {
		c = make(map[string]int)
	}
	st.runs[run] = c

	return nil
}

func (st *Storage) Load(ctx context.Context, run string) (map[string]int, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.RLock()
	defer st.mu.RUnlock()

	counts, ok := st.runs[run]
	if !ok {
		return nil, fmt.Errorf("load %q: %w", run, mapreduce.ErrRunNotFound)
	}

	return maps.Clone(counts), nil
}

func (st *Storage) Runs(ctx context.Context) ([]string, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.RLock()
	defer st.mu.RUnlock()

	return slices.Sorted(maps.Keys(st.runs)), nil
}
