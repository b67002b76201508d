package mapreduce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// phase fans tasks out to a fixed pool of workers and collects one result
// per task back on the calling goroutine. run returns only after every
// worker has exited, so nothing of a phase outlives it.
type phase[In, Out any] struct {
	name    string
	workers int
	timeout time.Duration
	log     *slog.Logger

	// fork builds worker id, reading tasks from in and writing results to
	// out (always to receiver 0).
	fork func(id int, in transport[In], out transport[Out]) worker

	// route picks the worker that gets task i.
	route func(i int) int
}

func (p phase[In, Out]) run(ctx context.Context, tasks []In, collect func(Out)) error {
	phaseCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		phaseCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(phaseCtx)

	in := newTransport[In](1, p.workers)
	out := newTransport[Out](p.workers, 1)

	for id := range p.workers {
		w := p.fork(id, in, out)
		g.Go(func() error {
			return w.run(gctx)
		})
	}

	g.Go(func() error {
		defer in.Close()
		for i, task := range tasks {
			if err := in.Send(gctx, p.route(i), task); err != nil {
				return err
			}
		}
		return nil
	})

	collected := 0
	for {
		res, open := out.Recv(gctx, 0)
		if !open {
			break
		}
		collect(res)
		collected++
	}

	err := g.Wait()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = &PhaseTimeoutError{Phase: p.name, Outstanding: len(tasks) - collected}
		}
		p.log.Error("mapreduce: phase failed", "phase", p.name, "collected", collected, "tasks", len(tasks), "err", err)
		return err
	}

	if collected != len(tasks) {
		return fmt.Errorf("%s phase: collected %d results for %d tasks", p.name, collected, len(tasks))
	}

	return nil
}
