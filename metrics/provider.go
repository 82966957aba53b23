// Package metrics defines the minimal instrument surface a Stage records into,
// an in-memory provider for tests, an OpenTelemetry adapter and a no-op default.
package metrics

// Instrument names recorded by every stage run.
const (
	ItemsAdmitted     = "parallel_items_admitted_total"
	ItemsEmitted      = "parallel_items_emitted_total"
	ItemsFailed       = "parallel_items_failed_total"
	ItemsDiscarded    = "parallel_items_discarded_total"
	AdmissionDeferred = "parallel_admission_deferred_total"
	TransformsRunning = "parallel_transforms_in_flight"
	ResultsBuffered   = "parallel_results_buffered"
	TransformSeconds  = "parallel_transform_seconds"
)

// Provider constructs instruments. Implementations must be safe for concurrent use
// and return the same instrument for the same name.
type Provider interface {
	Counter(name string, opts ...InstrumentOption) Counter
	UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter
	Histogram(name string, opts ...InstrumentOption) Histogram
}

// Counter records monotonic counts.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records a level that moves both ways, e.g. transforms in flight.
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution of measurements, e.g. transform durations in seconds.
type Histogram interface {
	Record(v float64)
}

// InstrumentConfig carries advisory instrument metadata.
type InstrumentConfig struct {
	Description string
	Unit        string
	// Attributes are static pairs attached to the instrument. Keep cardinality bounded.
	Attributes map[string]string
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// WithDescription sets the instrument description.
func WithDescription(desc string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Description = desc }
}

// WithUnit sets the instrument unit, e.g. "1" or "s".
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Unit = unit }
}

// WithAttributes merges static attributes into the instrument config.
func WithAttributes(attrs map[string]string) InstrumentOption {
	return func(c *InstrumentConfig) {
		if len(attrs) == 0 {
			return
		}
		if c.Attributes == nil {
			c.Attributes = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			c.Attributes[k] = v
		}
	}
}

func buildConfig(opts []InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}
