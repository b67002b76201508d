package mapreduce

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Config struct {
	Mappers  int
	Reducers int

	// PhaseTimeout bounds each of the map and reduce phases. Zero means no
	// timeout. A phase joins only once its running tasks return, so a
	// custom MapFunc or ReduceFunc must watch ctx for the bound to hold.
	// CountWords and Sum do.
	PhaseTimeout time.Duration
}

type Option func(mr *MapReduce)

func WithMapFunc(fn MapFunc) Option {
	return func(mr *MapReduce) { mr.mapFn = fn }
}

func WithReduceFunc(fn ReduceFunc) Option {
	return func(mr *MapReduce) { mr.reduceFn = fn }
}

func WithPartitioner(p Partitioner) Option {
	return func(mr *MapReduce) { mr.partitioner = p }
}

func WithLogger(log *slog.Logger) Option {
	return func(mr *MapReduce) { mr.log = log }
}

// MapReduce counts words of a document with a pool of mappers and a pool
// of reducers. Phases are strictly sequential: chunk, map, shuffle,
// partition, reduce. A MapReduce may be reused and run concurrently.
type MapReduce struct {
	mapperCount  int
	reducerCount int
	phaseTimeout time.Duration

	mapFn       MapFunc
	reduceFn    ReduceFunc
	partitioner Partitioner

	log   *slog.Logger
	stats *Stats
}

// New validates cfg and builds a MapReduce. It returns a
// *ConfigurationError if Mappers or Reducers is not positive.
func New(cfg Config, opts ...Option) (*MapReduce, error) {
	mr := &MapReduce{
		mapperCount:  cfg.Mappers,
		reducerCount: cfg.Reducers,
		phaseTimeout: cfg.PhaseTimeout,
		mapFn:        CountWords,
		reduceFn:     Sum,
		partitioner:  RoundRobin{},
		log:          slog.Default(),
		stats:        &Stats{},
	}

	for _, opt := range opts {
		opt(mr)
	}

	if err := mr.validate(); err != nil {
		return nil, err
	}

	return mr, nil
}

func (mr *MapReduce) validate() error {
	if mr.mapperCount < 1 {
		return &ConfigurationError{Field: "mappers", Value: mr.mapperCount}
	}
	if mr.reducerCount < 1 {
		return &ConfigurationError{Field: "reducers", Value: mr.reducerCount}
	}
	if mr.mapFn == nil || mr.reduceFn == nil || mr.partitioner == nil || mr.log == nil || mr.stats == nil {
		return fmt.Errorf("%w: mapreduce is not initialized, use New", ErrConfiguration)
	}

	return nil
}

func (mr *MapReduce) Stats() *Stats {
	return mr.stats
}

// Run counts the words of text. It blocks until every phase has joined.
// The first failing task aborts the run: its peers are cancelled and Run
// returns that task's error with a nil map. Empty text gives an empty map.
func (mr *MapReduce) Run(ctx context.Context, text string) (map[string]int, error) {
	if err := mr.validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(
		attribute.Int("mappers", mr.mapperCount),
		attribute.Int("reducers", mr.reducerCount),
		attribute.Int("bytes", len(text)),
	))
	defer span.End()

	counts, err := mr.run(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return counts, nil
}

func (mr *MapReduce) run(ctx context.Context, text string) (map[string]int, error) {
	chunks := SplitChunks(text, mr.mapperCount)
	mr.stats.Chunks.Add(uint64(len(chunks)))
	if len(chunks) == 0 {
		return map[string]int{}, nil
	}

	mr.log.Info("mapreduce: map phase", "chunks", len(chunks), "mappers", mr.mapperCount)
	pairs, err := mr.mapPhase(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("map phase: %w", err)
	}

	grouped := mr.shufflePhase(ctx, pairs)

	assignment := mr.partitionPhase(ctx, grouped)

	mr.log.Info("mapreduce: reduce phase", "words", grouped.Len(), "reducers", mr.reducerCount)
	counts, err := mr.reducePhase(ctx, grouped, assignment)
	if err != nil {
		return nil, fmt.Errorf("reduce phase: %w", err)
	}

	mr.log.Info("mapreduce: done", "words", len(counts), "stats", mr.stats.String())

	return counts, nil
}

func (mr *MapReduce) mapPhase(ctx context.Context, chunks []Chunk) ([]Pair, error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	p := phase[Chunk, mapResult]{
		name:    "map",
		workers: mr.mapperCount,
		timeout: mr.phaseTimeout,
		log:     mr.log,
		fork: func(id int, in transport[Chunk], out transport[mapResult]) worker {
			return &mapper{id: id, mapFn: mr.mapFn, stats: mr.stats, log: mr.log, in: in, out: out}
		},
		route: func(i int) int {
			return i % mr.mapperCount
		},
	}

	// indexed by chunk ID so the pair sequence does not depend on which
	// mapper finished first
	byChunk := make([][]Pair, len(chunks))
	total := 0
	err := p.run(ctx, chunks, func(res mapResult) {
		byChunk[res.chunkID] = res.pairs
		total += len(res.pairs)
	})
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, total)
	for _, ps := range byChunk {
		pairs = append(pairs, ps...)
	}

	return pairs, nil
}

func (mr *MapReduce) shufflePhase(ctx context.Context, pairs []Pair) *Grouped {
	_, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(attribute.Int("pairs", len(pairs))))
	defer span.End()

	return Shuffle(pairs)
}

func (mr *MapReduce) partitionPhase(ctx context.Context, grouped *Grouped) Assignment {
	_, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(attribute.Int("words", grouped.Len())))
	defer span.End()

	return mr.partitioner.Assign(grouped.Keys, mr.reducerCount)
}

func (mr *MapReduce) reducePhase(ctx context.Context, grouped *Grouped, assignment Assignment) (map[string]int, error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	words, slots, err := flatten(grouped, assignment, mr.reducerCount)
	if err != nil {
		return nil, err
	}

	p := phase[string, reduceResult]{
		name:    "reduce",
		workers: mr.reducerCount,
		timeout: mr.phaseTimeout,
		log:     mr.log,
		fork: func(id int, in transport[string], out transport[reduceResult]) worker {
			return &reducer{id: id, reduceFn: mr.reduceFn, grouped: grouped, stats: mr.stats, log: mr.log, in: in, out: out}
		},
		route: func(i int) int {
			return slots[i]
		},
	}

	counts := make(map[string]int, len(words))
	err = p.run(ctx, words, func(res reduceResult) {
		counts[res.word] = res.total
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// flatten lists the assigned words with the slot of each. Every grouped
// word must appear in exactly one of the reducers slots, and nothing else
// may appear.
func flatten(grouped *Grouped, assignment Assignment, reducers int) (words []string, slots []int, err error) {
	if len(assignment) != reducers {
		return nil, nil, fmt.Errorf("partitioner returned %d slots, want %d", len(assignment), reducers)
	}

	seen := make(map[string]int, grouped.Len())
	for slot, ws := range assignment {
		for _, w := range ws {
			if _, ok := grouped.values[w]; !ok {
				return nil, nil, fmt.Errorf("partitioner assigned unknown word %q to slot %d", w, slot)
			}
			if prev, ok := seen[w]; ok {
				return nil, nil, fmt.Errorf("partitioner assigned word %q to slots %d and %d", w, prev, slot)
			}
			seen[w] = slot

			words = append(words, w)
			slots = append(slots, slot)
		}
	}

	if len(seen) != grouped.Len() {
		return nil, nil, fmt.Errorf("partitioner placed %d of %d words", len(seen), grouped.Len())
	}

	return words, slots, nil
}
