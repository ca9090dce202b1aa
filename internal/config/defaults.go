package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// QuoteDefaults seeds new positions. It is passed explicitly to the insert
// path; nothing reads it from package state.
type QuoteDefaults struct {
	Color         string `mapstructure:"color"`
	SwingPosition string `mapstructure:"swingPosition"`
	LoweredHandle string `mapstructure:"loweredHandle"`
	GridModel     string `mapstructure:"gridModel"`
	BunkerBar     string `mapstructure:"bunkerBar"`
	Spacer        string `mapstructure:"spacer"`
}

var validColors = map[string]struct{}{
	"STANDARD RAL":   {},
	"EFFETTO LEGNO":  {},
	"GREZZO":         {},
	"EXTRA MAZZETTA": {},
}

func DefaultQuoteDefaults() QuoteDefaults {
	return QuoteDefaults{
		Color:         "STANDARD RAL",
		SwingPosition: "ANTA A GIRO",
		LoweredHandle: "NO",
		GridModel:     "DA DEFINIRE",
		BunkerBar:     "NO",
		Spacer:        "NO",
	}
}

type DefaultsHolder struct {
	current atomic.Value // holds QuoteDefaults
}

// NewDefaultsHolder reads quoting.yml from dir, the system paths or the
// working directory and reloads it when the file changes. A missing file
// leaves the built-in defaults in place.
func NewDefaultsHolder(cfg Config, log *zap.Logger) (*DefaultsHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.defaults")

	v := viper.New()
	v.SetConfigName("quoting")
	v.SetConfigType("yml")
	if dir := strings.TrimSpace(cfg.Quote.DefaultsIn); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("/etc/gestionale")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GESTIONALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultQuoteDefaults()
	v.SetDefault("defaults.color", defaults.Color)
	v.SetDefault("defaults.swingPosition", defaults.SwingPosition)
	v.SetDefault("defaults.loweredHandle", defaults.LoweredHandle)
	v.SetDefault("defaults.gridModel", defaults.GridModel)
	v.SetDefault("defaults.bunkerBar", defaults.BunkerBar)
	v.SetDefault("defaults.spacer", defaults.Spacer)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		watch = false
	}

	qd := DefaultQuoteDefaults()
	if err := v.UnmarshalKey("defaults", &qd); err != nil {
		return nil, err
	}
	qd = normalizeDefaults(qd)
	if err := validateDefaults(qd); err != nil {
		return nil, err
	}

	holder := &DefaultsHolder{}
	holder.current.Store(qd)

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			updated := DefaultQuoteDefaults()
			if err := v.UnmarshalKey("defaults", &updated); err != nil {
				log.Warn("reload failed", zap.String("file", e.Name), zap.Error(err))
				return
			}
			updated = normalizeDefaults(updated)
			if err := validateDefaults(updated); err != nil {
				log.Warn("invalid defaults ignored", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("defaults reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return holder, nil
}

// NewStaticDefaultsHolder returns a holder that never reloads.
func NewStaticDefaultsHolder(qd QuoteDefaults) *DefaultsHolder {
	holder := &DefaultsHolder{}
	holder.current.Store(normalizeDefaults(qd))
	return holder
}

func (h *DefaultsHolder) Get() QuoteDefaults {
	return h.current.Load().(QuoteDefaults)
}

func normalizeDefaults(qd QuoteDefaults) QuoteDefaults {
	qd.Color = strings.ToUpper(strings.TrimSpace(qd.Color))
	qd.SwingPosition = strings.TrimSpace(qd.SwingPosition)
	qd.LoweredHandle = strings.ToUpper(strings.TrimSpace(qd.LoweredHandle))
	qd.GridModel = strings.TrimSpace(qd.GridModel)
	qd.BunkerBar = strings.ToUpper(strings.TrimSpace(qd.BunkerBar))
	qd.Spacer = strings.ToUpper(strings.TrimSpace(qd.Spacer))
	return qd
}

func validateDefaults(qd QuoteDefaults) error {
	if _, ok := validColors[qd.Color]; !ok {
		return errors.New("defaults.color must be one of STANDARD RAL, EFFETTO LEGNO, GREZZO, EXTRA MAZZETTA")
	}
	if qd.SwingPosition == "" {
		return errors.New("defaults.swingPosition cannot be empty")
	}
	return nil
}
