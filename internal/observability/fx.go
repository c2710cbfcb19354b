package observability

import (
	"github.com/frontstep/dealanalyzer/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// The default registry already carries the Go and process collectors, and
// the gorm prometheus plugin registers there too.
func defaultRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

var Module = fx.Module("observability",
	fx.Provide(
		defaultRegisterer,
		metrics.New,
	),
)
