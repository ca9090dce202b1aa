package quotemetrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("quote.metrics",
	fx.Provide(func() *prometheus.Registry {
		return prometheus.NewRegistry()
	}),
	fx.Provide(func(registry *prometheus.Registry) Recorder {
		return NewRecorder(registry)
	}),
	fx.Provide(NewPusher),
	fx.Invoke(registerPushOnStop),
)

// registerPushOnStop flushes the registry once when the app stops.
func registerPushOnStop(lc fx.Lifecycle, registry *prometheus.Registry, pusher Pusher, log *zap.Logger) {
	if pusher == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pushCtx, cancel := context.WithTimeout(ctx, defaultPushTimeout)
			defer cancel()
			if err := pusher.Push(pushCtx, registry); err != nil {
				log.Warn("metrics push failed", zap.Error(err))
			}
			return nil
		},
	})
}
