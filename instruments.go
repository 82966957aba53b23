package parallel

import "github.com/ygrebnov/parallel/metrics"

// instruments bundles the metrics a run records.
type instruments struct {
	admitted  metrics.Counter
	emitted   metrics.Counter
	failed    metrics.Counter
	discarded metrics.Counter
	deferred  metrics.Counter

	inFlight metrics.UpDownCounter
	buffered metrics.UpDownCounter

	transformSeconds metrics.Histogram
}

func newInstruments(p metrics.Provider, stage string) instruments {
	attrs := metrics.WithAttributes(map[string]string{"stage": stage})
	one := metrics.WithUnit("1")
	return instruments{
		admitted:  p.Counter(metrics.ItemsAdmitted, attrs, one, metrics.WithDescription("items admitted")),
		emitted:   p.Counter(metrics.ItemsEmitted, attrs, one, metrics.WithDescription("results emitted downstream")),
		failed:    p.Counter(metrics.ItemsFailed, attrs, one, metrics.WithDescription("transforms that returned an error")),
		discarded: p.Counter(metrics.ItemsDiscarded, attrs, one, metrics.WithDescription("completions dropped after failure")),
		deferred: p.Counter(metrics.AdmissionDeferred, attrs, one,
			metrics.WithDescription("times admission paused at the concurrency cap")),
		inFlight: p.UpDownCounter(metrics.TransformsRunning, attrs, one,
			metrics.WithDescription("transforms currently running")),
		buffered: p.UpDownCounter(metrics.ResultsBuffered, attrs, one,
			metrics.WithDescription("ordered result slots held")),
		transformSeconds: p.Histogram(metrics.TransformSeconds, attrs, metrics.WithUnit("s"),
			metrics.WithDescription("transform duration")),
	}
}
