package httpclient

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Task is the single-shot asynchronous result of a call.
type Task[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Start runs fn in a new goroutine and returns its Task.
func Start[T any](fn func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.value, t.err = fn()
	}()
	return t
}

// Done is closed once the result is available.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Await blocks until the task finishes or ctx is done.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AwaitAll waits for every task and returns their values in order. The
// first error stops the wait and is returned.
func AwaitAll[T any](ctx context.Context, tasks ...*Task[T]) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)
	values := make([]T, len(tasks))
	for i, t := range tasks {
		g.Go(func() error {
			v, err := t.Await(gctx)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

// DoAll sends every request concurrently and resolves each with r. The
// values are returned in request order. The first failure cancels the calls
// still in flight and is returned.
func DoAll[T, E any](ctx context.Context, c *Client, reqs []Request, r Resolver[T, E]) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)
	values := make([]T, len(reqs))
	for i, req := range reqs {
		g.Go(func() error {
			v, err := Do(gctx, c, req, r)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

// Race returns the result of whichever task finishes first.
func Race[T any](ctx context.Context, tasks ...*Task[T]) (T, error) {
	var zero T
	if len(tasks) == 0 {
		return zero, errors.New("httpclient: race of zero tasks")
	}
	first := make(chan *Task[T], len(tasks))
	for _, t := range tasks {
		go func(t *Task[T]) {
			select {
			case <-t.done:
				first <- t
			case <-ctx.Done():
			}
		}(t)
	}
	select {
	case t := <-first:
		return t.value, t.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
