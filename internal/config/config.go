package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	MachineID   int64

	Log   LogConfig
	Trace TraceConfig

	Reference ReferenceConfig
	Quote     QuoteConfig
	Metrics   MetricsConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

type LogConfig struct {
	Level  string
	Format string
	// SampleBurst enables zap sampling when positive.
	SampleBurst int
}

type TraceConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

// ReferenceConfig locates the reference tables.
type ReferenceConfig struct {
	Source       string
	WorkbookPath string
	Watch        bool
	Sheets       SheetNames
}

// SheetNames maps each reference table to its workbook sheet.
type SheetNames struct {
	Elements      string
	PriceList     string
	GridModels    string
	CounterFrames string
	FrameTypes    string
}

type QuoteConfig struct {
	Dir        string
	File       string
	PDFPath    string
	XLSXPath   string
	DefaultsIn string
}

type MetricsConfig struct {
	Enabled   bool
	Exporter  string
	Endpoint  string
	AuthToken string
}

const (
	ReferenceSourceWorkbook = "workbook"
	ReferenceSourceDatabase = "database"
)

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "gestionale"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		MachineID:   getenvInt64("MACHINE_ID", 1),
		Log: LogConfig{
			Level:       strings.ToLower(getenv("LOG_LEVEL", "info")),
			Format:      strings.ToLower(getenv("LOG_FORMAT", "console")),
			SampleBurst: int(getenvInt64("LOG_SAMPLE_BURST", 0)),
		},
		Trace: TraceConfig{
			Enabled:       getenvBool("OTEL_ENABLED", false),
			Endpoint:      strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")),
			Protocol:      traceProtocol(),
			SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 1),
		},
		Reference: ReferenceConfig{
			Source:       normalizeSource(getenv("REFERENCE_SOURCE", ReferenceSourceWorkbook)),
			WorkbookPath: getenv("REFERENCE_WORKBOOK", "data/database_gestionale.xlsx"),
			Watch:        getenvBool("REFERENCE_WATCH", false),
			Sheets: SheetNames{
				Elements:      getenv("REFERENCE_SHEET_ELEMENTS", "elementi"),
				PriceList:     getenv("REFERENCE_SHEET_PRICE_LIST", "listino"),
				GridModels:    getenv("REFERENCE_SHEET_GRID_MODELS", "modello_grata_combinato"),
				CounterFrames: getenv("REFERENCE_SHEET_COUNTER_FRAMES", "controtelai"),
				FrameTypes:    getenv("REFERENCE_SHEET_FRAME_TYPES", "telaio"),
			},
		},
		Quote: QuoteConfig{
			Dir:        getenv("QUOTE_DIR", "preventivi"),
			File:       strings.TrimSpace(getenv("QUOTE_FILE", "")),
			PDFPath:    strings.TrimSpace(getenv("QUOTE_EXPORT_PDF", "")),
			XLSXPath:   strings.TrimSpace(getenv("QUOTE_EXPORT_XLSX", "")),
			DefaultsIn: getenv("QUOTE_DEFAULTS_DIR", "."),
		},
		Metrics: MetricsConfig{
			Enabled:   getenvBool("METRICS_ENABLED", false),
			Exporter:  strings.ToLower(getenv("METRICS_EXPORTER", "")),
			Endpoint:  strings.TrimSpace(getenv("METRICS_ENDPOINT", "")),
			AuthToken: strings.TrimSpace(getenv("METRICS_AUTH_TOKEN", "")),
		},
		DBType:            getenv("DATABASE_TYPE", "sqlite"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "gestionale"),
		DBUser:            getenv("DATABASE_USER", "gestionale"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "data/gestionale.db"),
		DBMaxIdleConn:     int(getenvInt64("DATABASE_MAX_IDLE_CONN", 2)),
		DBMaxOpenConn:     int(getenvInt64("DATABASE_MAX_OPEN_CONN", 5)),
		DBConnMaxLifetime: int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 300)),
		DBConnMaxIdleTime: int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 60)),
	}

	return cfg
}

func normalizeSource(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ReferenceSourceDatabase, "db":
		return ReferenceSourceDatabase
	default:
		return ReferenceSourceWorkbook
	}
}

// traceProtocol prefers the traces-specific OTLP protocol variable.
func traceProtocol() string {
	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL")); v != "" {
		return strings.ToLower(v)
	}
	return strings.ToLower(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on", "si":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
