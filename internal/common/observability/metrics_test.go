package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordJob(t *testing.T) {
	reader := metric.NewManualReader()
	o := NewWithReader("character-workers-test", reader)
	defer o.Shutdown()

	ctx := context.Background()
	o.RecordJob(ctx, "generate-characters", "success", 1500*time.Millisecond)
	o.RecordJob(ctx, "generate-characters", "MODEL_OUTPUT_INVALID", 200*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	found := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		found[m.Name] = true
		if m.Name == "jobs.processed" {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			assert.Len(t, sum.DataPoints, 2)
		}
	}
	assert.True(t, found["jobs.processed"])
	assert.True(t, found["jobs.duration"])
}

func TestZeroValueIsSafe(t *testing.T) {
	o := &Observability{}
	o.RecordJob(context.Background(), "get-generation", "success", time.Millisecond)
	o.Shutdown()
}
