package live

import "context"

// Result is one emission of a reactive query.
type Result[T any] struct {
	Value T
	Err   error
}

// Watch runs fetch once, then again after every change to any of tables,
// sending each result on the returned channel. The subscription is taken
// before the first fetch so no change between the two is lost.
//
// The channel is closed when ctx is done or after fetch fails; the failing
// result is delivered before the close.
func Watch[T any](ctx context.Context, t *Tracker, fetch func() (T, error), tables ...string) <-chan Result[T] {
	out := make(chan Result[T])
	changed, cancel := t.Subscribe(tables...)

	go func() {
		defer close(out)
		defer cancel()

		for {
			value, err := fetch()
			select {
			case out <- Result[T]{Value: value, Err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}

			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
