package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// BasicProvider keeps instruments in memory. It is safe for concurrent use and meant for
// tests, examples and small programs that read values back through CounterValue,
// UpDownValue and HistogramValue.
type BasicProvider struct {
	counters   registry[*BasicCounter]
	updowns    registry[*BasicUpDownCounter]
	histograms registry[*BasicHistogram]
}

// NewBasicProvider constructs an empty BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{}
}

// Counter returns the counter registered under name, creating it on first use.
func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	return p.counters.get(name, opts, func() *BasicCounter { return &BasicCounter{} })
}

// UpDownCounter returns the up/down counter registered under name, creating it on first use.
func (p *BasicProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	return p.updowns.get(name, opts, func() *BasicUpDownCounter { return &BasicUpDownCounter{} })
}

// Histogram returns the histogram registered under name, creating it on first use.
func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	return p.histograms.get(name, opts, func() *BasicHistogram {
		return &BasicHistogram{min: math.Inf(1), max: math.Inf(-1)}
	})
}

// CounterValue returns the current value of a counter, or 0 if it was never created.
func (p *BasicProvider) CounterValue(name string) int64 {
	if c, ok := p.counters.lookup(name); ok {
		return c.Snapshot()
	}
	return 0
}

// UpDownValue returns the current value and peak of an up/down counter.
func (p *BasicProvider) UpDownValue(name string) (current, peak int64) {
	if u, ok := p.updowns.lookup(name); ok {
		return u.Snapshot(), u.Peak()
	}
	return 0, 0
}

// HistogramValue returns a snapshot of a histogram; the zero snapshot if it was never created.
func (p *BasicProvider) HistogramValue(name string) HistSnapshot {
	if h, ok := p.histograms.lookup(name); ok {
		return h.Snapshot()
	}
	return HistSnapshot{}
}

// Config returns the metadata an instrument was created with.
func (p *BasicProvider) Config(name string) (InstrumentConfig, bool) {
	for _, r := range []interface {
		config(string) (InstrumentConfig, bool)
	}{&p.counters, &p.updowns, &p.histograms} {
		if cfg, ok := r.config(name); ok {
			return cfg, true
		}
	}
	return InstrumentConfig{}, false
}

// registry maps names to instruments of one kind; the first creation wins.
type registry[I any] struct {
	mu    sync.RWMutex
	items map[string]I
	meta  map[string]InstrumentConfig
}

func (r *registry[I]) get(name string, opts []InstrumentOption, newFn func() I) I {
	if it, ok := r.lookup(name); ok {
		return it
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if it, ok := r.items[name]; ok {
		return it
	}
	if r.items == nil {
		r.items = make(map[string]I)
		r.meta = make(map[string]InstrumentConfig)
	}
	it := newFn()
	r.items[name] = it
	r.meta[name] = buildConfig(opts)
	return it
}

func (r *registry[I]) lookup(name string) (I, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[name]
	return it, ok
}

func (r *registry[I]) config(name string) (InstrumentConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.meta[name]
	return cfg, ok
}

// BasicCounter is a thread-safe monotonic counter.
type BasicCounter struct {
	val atomic.Int64
}

func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() int64 { return c.val.Load() }

// BasicUpDownCounter is a thread-safe up/down counter that also remembers its highest value.
type BasicUpDownCounter struct {
	val  atomic.Int64
	peak atomic.Int64
}

func (u *BasicUpDownCounter) Add(n int64) {
	v := u.val.Add(n)
	for {
		p := u.peak.Load()
		if v <= p || u.peak.CompareAndSwap(p, v) {
			return
		}
	}
}

// Snapshot returns the current value.
func (u *BasicUpDownCounter) Snapshot() int64 { return u.val.Load() }

// Peak returns the highest value observed so far.
func (u *BasicUpDownCounter) Peak() int64 { return u.peak.Load() }

// BasicHistogram tracks count, sum, min and max. It keeps no buckets.
type BasicHistogram struct {
	mu    sync.Mutex
	count int64
	sum   float64
	min   float64
	max   float64
}

func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += v
	h.min = math.Min(h.min, v)
	h.max = math.Max(h.max, v)
}

// HistSnapshot is an immutable copy of a BasicHistogram.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}

// Snapshot returns a copy of the histogram state.
func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := HistSnapshot{Count: h.count, Sum: h.sum}
	if h.count > 0 {
		s.Min, s.Max, s.Mean = h.min, h.max, h.sum/float64(h.count)
	}
	return s
}
