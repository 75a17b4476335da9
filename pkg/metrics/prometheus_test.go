package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordFetch("news", true, 0.2)
	r.RecordFetch("news", false, 1.5)
	r.RecordFetch("news", true, 0.1)
	r.RecordEnrichment("fallback")
	r.RecordDigestSource("persisted")
	r.RecordError("render")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetchTotal.WithLabelValues("news", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchTotal.WithLabelValues("news", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.enrichTotal.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.digestSource.WithLabelValues("persisted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("render")))
}
