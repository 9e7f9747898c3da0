package assetdb_test

import (
	"testing"

	"github.com/brain2-labs/assetengine/pkg/assetdb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	assetdb.NewMetrics(reg)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]struct{}, len(families))
	for _, f := range families {
		names[f.GetName()] = struct{}{}
	}
	for _, want := range []string{
		"assetengine_tick_duration_seconds",
		"assetengine_busy_entities",
		"assetengine_deferred_queue_depth",
		"assetengine_fetch_errors_total",
		"assetengine_protocol_errors_total",
		"assetengine_entities_despawned_total",
	} {
		assert.Contains(t, names, want)
	}
}

func TestNewMetricsWithNilRegistererDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		assetdb.NewMetrics(nil)
	})
}
