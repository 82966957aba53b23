package parallel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// run drives one scheduler from a single coordinator goroutine.
//
// It is the channel-side adapter of a Stage: it receives items from the input channel
// while admission allows, routes transform completions back into the scheduler and
// forwards emitted results and the fatal error to the caller. Transform goroutines only
// ever send on completions, which is buffered to the concurrency limit so they never block.
type run[T, R any] struct {
	ctx context.Context
	// tctx is handed to transforms and flush; it is canceled when the run fails or ends.
	tctx   context.Context
	cancel context.CancelFunc

	in  <-chan T
	src <-chan T // nil while admission is deferred or after input is exhausted

	out         chan R
	errs        chan error
	completions chan completion[R]

	transform Transform[T, R]
	tagging   bool
	sched     *scheduler[T, R]
	inst      instruments
	log       zerolog.Logger

	finished bool
	failed   bool
}

func newRun[T, R any](ctx context.Context, s *Stage[T, R], in <-chan T) *run[T, R] {
	cfg := s.config
	tctx, cancel := context.WithCancel(ctx)

	r := &run[T, R]{
		ctx:         ctx,
		tctx:        tctx,
		cancel:      cancel,
		in:          in,
		src:         in,
		out:         make(chan R, cfg.OutputBufferSize),
		errs:        make(chan error, 1),
		completions: make(chan completion[R], cfg.MaxConcurrency),
		transform:   s.transform,
		tagging:     cfg.ErrorTagging,
		inst:        newInstruments(cfg.Metrics, cfg.Name),
		log:         cfg.Logger.With().Str("stage", cfg.Name).Str("run", uuid.NewString()).Logger(),
	}

	flush := cfg.Flush
	r.sched = newScheduler[T, R](
		int(cfg.MaxConcurrency),
		newEmissionPolicy[R](cfg.Ordered, r.emit),
		r.start,
		func() error { return execFlush(r.tctx, flush) },
		r.fail,
		r.inst,
		r.log,
	)
	return r
}

func (r *run[T, R]) loop() {
	defer close(r.errs)
	defer close(r.out)
	defer r.cancel()

	r.log.Debug().Int("limit", r.sched.limit).Msg("run started")

	ctxDone := r.ctx.Done()
	for !r.finished {
		select {
		case item, ok := <-r.src:
			if !ok {
				r.src = nil
				if err := r.sched.inputExhausted(r.flushed); err != nil {
					r.sched.abort(err)
				}
				continue
			}
			decision, err := r.sched.admit(item, r.resume)
			if err != nil {
				r.sched.abort(err)
				continue
			}
			if decision == admissionDeferred {
				r.src = nil
			}

		case c := <-r.completions:
			r.sched.complete(c)

		case <-ctxDone:
			ctxDone = nil
			r.sched.abort(r.ctx.Err())
		}
	}

	// Wait for transforms still running after a failure so none outlives the run.
	for r.sched.outstanding() > 0 {
		r.sched.complete(<-r.completions)
	}
	r.log.Debug().Bool("failed", r.failed).Msg("run finished")
}

// start runs the transform for one admitted item in its own goroutine.
func (r *run[T, R]) start(item T, w *workItem[R]) {
	seq := w.seq
	go func() {
		began := time.Now()
		v, err := execTransform(r.tctx, r.transform, item)
		r.inst.transformSeconds.Record(time.Since(began).Seconds())
		if err != nil && r.tagging {
			err = newItemTaggedError(err, seq)
		}
		r.completions <- completion[R]{item: w, value: v, err: err}
	}()
}

func (r *run[T, R]) emit(v R) {
	select {
	case r.out <- v:
	case <-r.ctx.Done():
		// the caller is gone; the loop observes cancellation next and fails the run
	}
}

func (r *run[T, R]) resume() { r.src = r.in }

func (r *run[T, R]) flushed(err error) {
	if err != nil {
		r.fail(err)
		return
	}
	r.finished = true
}

// fail reports err once and ends the run.
func (r *run[T, R]) fail(err error) {
	if r.failed {
		return
	}
	r.failed = true
	r.finished = true
	r.cancel()
	r.errs <- err
}
