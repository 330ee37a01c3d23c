package observability

import (
	"github.com/techdrop/catalog/internal/observability/logger"
	"github.com/techdrop/catalog/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		logger.FromAppConfig,
		logger.New,
		metrics.NewHTTPMetrics,
	),
)
