package mapreduce

import (
	"context"
	"log/slog"

	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type worker interface {
	run(ctx context.Context) error
}

type mapper struct {
	id    int
	mapFn MapFunc
	stats *Stats
	log   *slog.Logger

	in  transport[Chunk]
	out transport[mapResult]
}

func (m *mapper) run(ctx context.Context) error {
	defer m.out.Close()

	for {
		chunk, open := m.in.Recv(ctx, m.id)
		if !open {
			m.log.Debug("mapper: transport closed", "id", m.id)
			return ctx.Err()
		}
		m.stats.MapIn.Add(1)

		taskCtx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(
			attribute.Int("mapper", m.id),
			attribute.Int("chunk", chunk.ID),
		))
		pairs, err := m.mapFn(taskCtx, chunk)
		span.End()
		if err != nil {
			m.log.Warn("mapper: chunk failed", "id", m.id, "chunk", chunk.ID, "err", err)
			return &ChunkProcessingError{ChunkID: chunk.ID, Start: chunk.Start, End: chunk.End, Err: err}
		}
		m.log.Debug("mapper: chunk mapped", "id", m.id, "chunk", chunk.ID, "pairs", len(pairs))

		if err := m.out.Send(ctx, 0, mapResult{chunkID: chunk.ID, pairs: pairs}); err != nil {
			return err
		}
		m.stats.MapOut.Add(uint64(len(pairs)))
	}
}

type reducer struct {
	id       int
	reduceFn ReduceFunc
	grouped  *Grouped
	stats    *Stats
	log      *slog.Logger

	in  transport[string]
	out transport[reduceResult]
}

func (r *reducer) run(ctx context.Context) error {
	defer r.out.Close()

	for {
		word, open := r.in.Recv(ctx, r.id)
		if !open {
			// every word of this slot is reduced
			r.log.Debug("reducer: transport closed", "id", r.id)
			return ctx.Err()
		}

		vals := r.grouped.Values(word)
		r.stats.ReduceIn.Add(uint64(len(vals)))

		taskCtx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(
			attribute.Int("reducer", r.id),
			attribute.String("word", word),
		))
		total, err := r.reduceFn(taskCtx, word, vals)
		span.End()
		if err != nil {
			r.log.Warn("reducer: word failed", "id", r.id, "word", word, "err", err)
			return &ReductionError{Word: word, Err: err}
		}

		if err := r.out.Send(ctx, 0, reduceResult{word: word, total: total}); err != nil {
			return err
		}
		r.stats.ReduceOut.Add(1)
	}
}
