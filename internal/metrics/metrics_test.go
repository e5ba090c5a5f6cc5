package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMutation(t *testing.T) {
	before := testutil.ToFloat64(contentMutationsTotal.WithLabelValues("page", "delete"))
	RecordMutation("page", "delete")
	assert.Equal(t, before+1, testutil.ToFloat64(contentMutationsTotal.WithLabelValues("page", "delete")))
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(renderCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(renderCacheTotal.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(renderCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(renderCacheTotal.WithLabelValues("miss")))
}

func TestRecordRequest_UnmatchedRoute(t *testing.T) {
	RecordRequest("GET", "", 404, 0.01)
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}
