package parallel

import "context"

// Map runs items through a Stage built from fn and opts and collects the results.
// Semantics:
// - Results follow completion order by default; input order if WithOrdered is given.
// - The flush hook (WithFlush) runs once after the last item, even when items is empty.
// - On the first error, Map returns that error together with the results emitted before it.
func Map[T, R any](ctx context.Context, items []T, fn Transform[T, R], opts ...Option) ([]R, error) {
	s, err := New[T, R](fn, opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel() // releases the feeder if the run fails early

	in := make(chan T)
	out, errs := s.Run(ctx, in)

	go func() {
		defer close(in)
		for _, item := range items {
			select {
			case in <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := make([]R, 0, len(items))
	for v := range out {
		results = append(results, v)
	}
	// errs is closed right after out; a nil receive means the run succeeded.
	if err := <-errs; err != nil {
		return results, err
	}
	return results, nil
}
