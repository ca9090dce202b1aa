package observability

import (
	"github.com/ifgsrl/gestionale/internal/observability/logger"
	"github.com/ifgsrl/gestionale/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		Config.LoggerConfig,
		Config.TracingConfig,
		logger.New,
		tracing.NewProvider,
	),
	// The tracer provider must exist before any service opens a span.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)
