package parallel

import "github.com/ygrebnov/parallel/queue"

// emissionPolicy decides when a completed result leaves the stage.
//
// Both hooks are called by the scheduler from the coordinator goroutine only:
// admitted before the item's transform starts, dispose once the transform succeeded.
// dispose returns how many results it emitted downstream as a consequence.
type emissionPolicy[R any] interface {
	admitted(w *workItem[R])
	dispose(w *workItem[R], value R) int
	buffered() int
}

func newEmissionPolicy[R any](ordered bool, emit func(R)) emissionPolicy[R] {
	if ordered {
		return &orderedPolicy[R]{emit: emit, slots: queue.New[*resultSlot[R]]()}
	}
	return &unorderedPolicy[R]{emit: emit}
}

// unorderedPolicy emits every result the moment its transform completes.
type unorderedPolicy[R any] struct {
	emit func(R)
}

func (*unorderedPolicy[R]) admitted(*workItem[R]) {}

func (p *unorderedPolicy[R]) dispose(_ *workItem[R], value R) int {
	p.emit(value)
	return 1
}

func (*unorderedPolicy[R]) buffered() int { return 0 }

// resultSlot holds one item's eventual output in ordered mode.
// It is filled exactly once and dequeued at most once.
type resultSlot[R any] struct {
	value    R
	resolved bool
}

// orderedPolicy keeps one slot per admitted item in arrival order and emits
// the head of the queue only while the head is resolved. Output order therefore
// equals admission order regardless of completion order.
type orderedPolicy[R any] struct {
	emit  func(R)
	slots *queue.Queue[*resultSlot[R]]
}

func (p *orderedPolicy[R]) admitted(w *workItem[R]) {
	w.slot = &resultSlot[R]{}
	p.slots.Enqueue(w.slot)
}

func (p *orderedPolicy[R]) dispose(w *workItem[R], value R) int {
	w.slot.value = value
	w.slot.resolved = true

	emitted := 0
	for {
		head, ok := p.slots.Peek()
		if !ok || !head.resolved {
			return emitted
		}
		_, _ = p.slots.Dequeue()
		v := head.value
		var zero R
		head.value = zero
		p.emit(v)
		emitted++
	}
}

// buffered counts slots still held: unresolved ones plus resolved ones waiting on an earlier item.
func (p *orderedPolicy[R]) buffered() int { return p.slots.Len() }
