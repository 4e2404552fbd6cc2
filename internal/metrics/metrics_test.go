package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestQueries_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	q := NewQueries(reg)

	q.Observe("find", "cogit_users", time.Now(), nil)
	q.Observe("find", "cogit_users", time.Now(), errors.New("boom"))

	assert.Equal(t, 1, testutil.CollectAndCount(q.duration))
	assert.Equal(t, float64(1), testutil.ToFloat64(q.failures.WithLabelValues("find", "cogit_users")))
}

func TestQueries_NilIsNoop(t *testing.T) {
	var q *Queries
	q.Observe("find", "cogit_users", time.Now(), errors.New("ignored"))
}
