package observability

import (
	"strings"

	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/ifgsrl/gestionale/internal/observability/logger"
	"github.com/ifgsrl/gestionale/internal/observability/tracing"
)

// Config is the observability slice of the application config.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	Log   config.LogConfig
	Trace config.TraceConfig
}

func LoadConfig(cfg config.Config) Config {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = "gestionale"
	}
	return Config{
		ServiceName: name,
		Environment: strings.TrimSpace(cfg.Environment),
		Version:     strings.TrimSpace(cfg.AppVersion),
		Log:         cfg.Log,
		Trace:       cfg.Trace,
	}
}

// Debug reports whether callers and stack traces should be logged.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.Log.Level), "debug") {
		return true
	}
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		ServiceName: c.ServiceName,
		Environment: c.Environment,
		Version:     c.Version,
		Level:       c.Log.Level,
		Format:      c.Log.Format,
		SampleBurst: c.Log.SampleBurst,
		Debug:       c.Debug(),
	}
}

func (c Config) TracingConfig() tracing.Config {
	return tracing.Config{
		Enabled:          c.Trace.Enabled,
		ServiceName:      c.ServiceName,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		ExporterEndpoint: c.Trace.Endpoint,
		ExporterProtocol: c.Trace.Protocol,
		SamplingRatio:    c.Trace.SamplingRatio,
	}
}
