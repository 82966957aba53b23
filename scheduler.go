package parallel

import (
	"github.com/rs/zerolog"
)

// admission is the back-pressure signal returned to the producer after an item is admitted.
type admission int

const (
	// admissionReady: the producer may supply the next item right away.
	admissionReady admission = iota
	// admissionDeferred: the producer must wait until its resume continuation is invoked.
	admissionDeferred
)

func (a admission) String() string {
	switch a {
	case admissionReady:
		return "ready"
	case admissionDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// itemState tracks one work item through the scheduler.
type itemState int

const (
	itemAdmitted itemState = iota
	itemOutstanding
	itemCompleted
)

// workItem is the scheduler's record of one admitted input.
// seq is the arrival index; slot is only set under the ordered policy.
type workItem[R any] struct {
	seq   uint64
	state itemState
	slot  *resultSlot[R]
}

// completion reports the outcome of one transform back to the scheduler.
type completion[R any] struct {
	item  *workItem[R]
	value R
	err   error
}

// scheduler is the bounded-concurrency state machine behind a stage run.
//
// It owns the in-flight counter, the concurrency limit and two deferred continuations:
// resumeAdmission (the producer is waiting for capacity) and finishFlush (input is
// exhausted but work is still outstanding). At most one of each exists, which matches a
// single producer feeding the run; admit and inputExhausted reject calls that break this.
//
// All methods must be called from one goroutine. Transforms run elsewhere and report
// through complete, which the owner calls after receiving a completion; start must never
// call complete synchronously.
type scheduler[T, R any] struct {
	limit   int
	running int
	seq     uint64

	policy emissionPolicy[R]
	start  func(item T, w *workItem[R])
	flush  func() error
	fail   func(error)

	resumeAdmission func()
	finishFlush     func(error)

	exhausted bool
	flushed   bool
	failed    bool

	inst instruments
	log  zerolog.Logger
}

func newScheduler[T, R any](
	limit int,
	policy emissionPolicy[R],
	start func(T, *workItem[R]),
	flush func() error,
	fail func(error),
	inst instruments,
	log zerolog.Logger,
) *scheduler[T, R] {
	return &scheduler[T, R]{
		limit:  limit,
		policy: policy,
		start:  start,
		flush:  flush,
		fail:   fail,
		inst:   inst,
		log:    log,
	}
}

// admit starts the transform for item. When the run reaches its limit, resume is kept and
// invoked once a completion both frees capacity and lets the policy emit at least one result.
// Any emission leaves both the running count and the slot count below the limit.
func (s *scheduler[T, R]) admit(item T, resume func()) (admission, error) {
	switch {
	case s.failed:
		return admissionDeferred, ErrStageFailed
	case s.exhausted:
		return admissionDeferred, ErrInputExhausted
	case s.resumeAdmission != nil || s.atCapacity():
		return admissionDeferred, ErrAdmissionDeferred
	}

	w := &workItem[R]{seq: s.seq, state: itemAdmitted}
	s.seq++

	before := s.policy.buffered()
	s.policy.admitted(w)
	s.inst.buffered.Add(int64(s.policy.buffered() - before))

	s.running++
	w.state = itemOutstanding
	s.inst.admitted.Add(1)
	s.inst.inFlight.Add(1)
	s.start(item, w)

	if !s.atCapacity() {
		return admissionReady, nil
	}
	s.resumeAdmission = resume
	s.inst.deferred.Add(1)
	s.log.Debug().Int("running", s.running).Int("limit", s.limit).Msg("admission deferred")
	return admissionDeferred, nil
}

// inputExhausted records that no more items will be admitted. Flush runs now if nothing
// is outstanding, otherwise when the last outstanding item completes. done receives the
// flush result.
func (s *scheduler[T, R]) inputExhausted(done func(error)) error {
	switch {
	case s.failed:
		return ErrStageFailed
	case s.exhausted:
		return ErrInputExhausted
	}
	s.exhausted = true
	s.log.Debug().Int("running", s.running).Uint64("admitted", s.seq).Msg("input exhausted")

	if s.running == 0 {
		s.runFlush(done)
		return nil
	}
	s.finishFlush = done
	return nil
}

// complete settles one outstanding item.
//
// The first error latches the scheduler as failed; completions that arrive afterwards
// only release their capacity and are otherwise discarded.
func (s *scheduler[T, R]) complete(c completion[R]) {
	w := c.item
	if w == nil || w.state != itemOutstanding {
		s.log.Warn().Msg("ignoring completion for an item that is not outstanding")
		return
	}
	w.state = itemCompleted
	s.running--
	s.inst.inFlight.Add(-1)

	if s.failed {
		s.inst.discarded.Add(1)
		s.log.Debug().Uint64("item", w.seq).AnErr("error", c.err).Msg("completion discarded after failure")
		return
	}

	if c.err != nil {
		s.inst.failed.Add(1)
		s.log.Error().Err(c.err).Uint64("item", w.seq).Msg("transform failed")
		s.terminate(c.err)
		return
	}

	before := s.policy.buffered()
	emitted := s.policy.dispose(w, c.value)
	s.inst.buffered.Add(int64(s.policy.buffered() - before))
	s.inst.emitted.Add(int64(emitted))

	// Resuming on a completion that emitted nothing would let ordered slots pile up past the limit.
	if emitted > 0 && s.resumeAdmission != nil {
		resume := s.resumeAdmission
		s.resumeAdmission = nil
		s.log.Debug().Int("running", s.running).Msg("admission resumed")
		resume()
	}

	if s.running == 0 && s.finishFlush != nil {
		done := s.finishFlush
		s.finishFlush = nil
		s.runFlush(done)
	}
}

// abort fails the scheduler from outside, e.g. on context cancellation.
func (s *scheduler[T, R]) abort(err error) {
	if s.failed {
		return
	}
	s.log.Debug().Err(err).Int("running", s.running).Msg("aborted")
	s.terminate(err)
}

func (s *scheduler[T, R]) terminate(err error) {
	s.failed = true
	s.resumeAdmission = nil
	s.finishFlush = nil
	s.fail(err)
}

func (s *scheduler[T, R]) runFlush(done func(error)) {
	if s.flushed {
		return
	}
	s.flushed = true
	s.log.Debug().Msg("flush started")
	err := s.flush()
	if err != nil {
		s.failed = true
		s.log.Error().Err(err).Msg("flush failed")
	} else {
		s.log.Debug().Msg("flush completed")
	}
	done(err)
}

// atCapacity reports whether another admission would exceed the limit, either in running
// transforms or in result slots held by the policy. Ordered slots outlive their transform
// while an earlier item is pending, so counting them keeps buffered results within the limit.
func (s *scheduler[T, R]) atCapacity() bool {
	return s.running >= s.limit || s.policy.buffered() >= s.limit
}

// outstanding reports the number of transforms currently in flight.
func (s *scheduler[T, R]) outstanding() int { return s.running }
