package mapreduce

import (
	"context"
	"errors"
)

var ErrRunNotFound = errors.New("run not found")

// Storage keeps final word counts, one mapping per named run. It is never
// used for intermediate state: the pipeline hands its result to a Storage
// only after Run has returned successfully.
//
// Saving under an existing run name replaces that run.
type Storage interface {
	Save(ctx context.Context, run string, counts map[string]int) error

	// Load returns ErrRunNotFound for a run that was never saved.
	Load(ctx context.Context, run string) (map[string]int, error)

	// Runs lists saved run names in ascending order.
	Runs(ctx context.Context) ([]string, error)
}
