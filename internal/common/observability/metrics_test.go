package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewWithRegisterer_RecordsMatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := NewWithRegisterer("committee-matcher-test", reg)
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	ctx, span := obs.StartSpan(context.Background(), "match", attribute.Int("committees", 3))
	assert.True(t, span.SpanContext().IsValid())
	obs.RecordMatch(ctx, "success", 120*time.Millisecond)
	span.End()

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "matches_processed")
	assert.Contains(t, joined, "matches_duration")
}

func TestNewNoop(t *testing.T) {
	obs := NewNoop()
	assert.NotPanics(t, func() {
		ctx, span := obs.StartSpan(context.Background(), "noop")
		obs.RecordMatch(ctx, "client_error", time.Millisecond)
		span.End()
	})
	assert.NoError(t, obs.Shutdown(context.Background()))
}
