package mapreduce

import (
	"context"
	"log"
	"sync"

	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type transport[T any] interface {
	// Recv receives the data sent to specified id. Blocks until someone
	// calls Send with corresponding id, until all senders called Close or
	// until ctx is done. The bool is false in the last two cases.
	Recv(ctx context.Context, id int) (T, bool)

	// Send sends the data to specified id. Blocks until the receiver has
	// room for it or ctx is done, in which case ctx.Err() is returned.
	Send(ctx context.Context, id int, data T) error

	// Close is called by sender, whenever it sent all it's data. It must be
	// called exactly once per sender. Sender must not use transport after
	// calling Close.
	Close()
}

type chanTransport[T any] struct {
	sendersWg *sync.WaitGroup
	peers     map[int]chan T
}

func newTransport[T any](senders, receivers int) transport[T] {
	peers := make(map[int]chan T, receivers)

	for i := range receivers {
		peers[i] = make(chan T, 1)
	}

	sendersWg := &sync.WaitGroup{}
	sendersWg.Add(senders)

	go func() {
		sendersWg.Wait()
		for _, ch := range peers {
			close(ch)
		}
	}()

	return &chanTransport[T]{
		sendersWg: sendersWg,
		peers:     peers,
	}
}

func (t *chanTransport[T]) Recv(ctx context.Context, id int) (data T, open bool) {
	ctx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(attribute.Int("id", id)))
	defer span.End()

	ch, ok := t.peers[id]
	if !ok {
		log.Panicf("recv: no peer for id %d", id)
	}

	select {
	case <-ctx.Done():
		return data, false
	case data, open = <-ch:
		return data, open
	}
}

func (t *chanTransport[T]) Send(ctx context.Context, id int, data T) error {
	ctx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(attribute.Int("id", id)))
	defer span.End()

	ch, ok := t.peers[id]
	if !ok {
		log.Panicf("send: no peer for id %d", id)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ch <- data:
		return nil
	}
}

func (t *chanTransport[T]) Close() {
	t.sendersWg.Done()
}
