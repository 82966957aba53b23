package parallel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ygrebnov/parallel/metrics"
)

func TestStage_BasicMetrics(t *testing.T) {
	p := metrics.NewBasicProvider()
	got, err := Map(context.Background(), []int{1, 2, 3, 4, 5}, Identity[int](),
		WithMetrics(p), WithMaxConcurrency(2), WithOrdered())
	require.NoError(t, err)
	require.Len(t, got, 5)

	require.Equal(t, int64(5), p.CounterValue(metrics.ItemsAdmitted))
	require.Equal(t, int64(5), p.CounterValue(metrics.ItemsEmitted))
	require.Equal(t, int64(0), p.CounterValue(metrics.ItemsFailed))

	current, peak := p.UpDownValue(metrics.TransformsRunning)
	require.Equal(t, int64(0), current)
	require.LessOrEqual(t, peak, int64(2))

	slots, slotsPeak := p.UpDownValue(metrics.ResultsBuffered)
	require.Equal(t, int64(0), slots)
	require.LessOrEqual(t, slotsPeak, int64(2))

	require.Equal(t, int64(5), p.HistogramValue(metrics.TransformSeconds).Count)
	cfg, ok := p.Config(metrics.ItemsAdmitted)
	require.True(t, ok)
	require.Equal(t, map[string]string{"stage": "parallel"}, cfg.Attributes)
}

func TestStage_OtelMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	_, err := Map(context.Background(), []string{"a", "b", "c"}, Identity[string](),
		WithMetrics(metrics.NewOtelProvider(mp.Meter("parallel"))), WithName("letters"))
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var emitted int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != metrics.ItemsEmitted {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				stage, _ := dp.Attributes.Value("stage")
				require.Equal(t, "letters", stage.AsString())
				emitted += dp.Value
			}
		}
	}
	require.Equal(t, int64(3), emitted)
}
