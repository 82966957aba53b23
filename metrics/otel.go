package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OtelProvider records stage instruments through an OpenTelemetry meter.
//
// Static attributes given with WithAttributes are attached to every measurement.
// Instrument creation errors are passed to otel.Handle and the instrument degrades to a no-op.
type OtelProvider struct {
	meter metric.Meter
}

// NewOtelProvider wraps meter, e.g. otel.Meter("github.com/ygrebnov/parallel").
func NewOtelProvider(meter metric.Meter) *OtelProvider {
	return &OtelProvider{meter: meter}
}

func (p *OtelProvider) Counter(name string, opts ...InstrumentOption) Counter {
	cfg := buildConfig(opts)
	c, err := p.meter.Int64Counter(name,
		metric.WithDescription(cfg.Description),
		metric.WithUnit(cfg.Unit),
	)
	if err != nil {
		otel.Handle(err)
		return noop{}
	}
	return &otelCounter{c: c, attrs: attributeOption(cfg.Attributes)}
}

func (p *OtelProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	cfg := buildConfig(opts)
	c, err := p.meter.Int64UpDownCounter(name,
		metric.WithDescription(cfg.Description),
		metric.WithUnit(cfg.Unit),
	)
	if err != nil {
		otel.Handle(err)
		return noop{}
	}
	return &otelUpDownCounter{c: c, attrs: attributeOption(cfg.Attributes)}
}

func (p *OtelProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	cfg := buildConfig(opts)
	h, err := p.meter.Float64Histogram(name,
		metric.WithDescription(cfg.Description),
		metric.WithUnit(cfg.Unit),
	)
	if err != nil {
		otel.Handle(err)
		return noop{}
	}
	return &otelHistogram{h: h, attrs: attributeOption(cfg.Attributes)}
}

func attributeOption(attrs map[string]string) metric.MeasurementOption {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kvs = append(kvs, attribute.String(k, v))
	}
	return metric.WithAttributeSet(attribute.NewSet(kvs...))
}

type otelCounter struct {
	c     metric.Int64Counter
	attrs metric.MeasurementOption
}

func (c *otelCounter) Add(n int64) { c.c.Add(context.Background(), n, c.attrs) }

type otelUpDownCounter struct {
	c     metric.Int64UpDownCounter
	attrs metric.MeasurementOption
}

func (c *otelUpDownCounter) Add(n int64) { c.c.Add(context.Background(), n, c.attrs) }

type otelHistogram struct {
	h     metric.Float64Histogram
	attrs metric.MeasurementOption
}

func (h *otelHistogram) Record(v float64) { h.h.Record(context.Background(), v, h.attrs) }
