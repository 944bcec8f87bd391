package inventory_test

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jhoicas/stocktransfer-api/pkg/metrics"
)

func counter(m *metrics.Metrics, op, outcome string) float64 {
	return testutil.ToFloat64(m.TransfersTotal.WithLabelValues(op, outcome))
}
