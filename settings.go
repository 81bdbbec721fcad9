package guidemask

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Settings is the project-level guide configuration. DefaultLayer names a
// layer class registered with RegisterLayerClass.
type Settings struct {
	DefaultLayer   string        `mapstructure:"default_layer"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
	DefaultZOrder  int           `mapstructure:"default_z_order"`
	MaskColor      Color         `mapstructure:"mask_color"`
	BorderColor    Color         `mapstructure:"border_color"`
	BorderWidth    float64       `mapstructure:"border_width"`
	Padding        float64       `mapstructure:"padding"`
	PulsePeriod    time.Duration `mapstructure:"pulse_period"`
}

var (
	settingsMu      sync.RWMutex
	defaultSettings = builtinSettings()
)

func builtinSettings() Settings {
	return Settings{
		DefaultLayer:   MaskLayerClass,
		DefaultTimeout: time.Second,
		DefaultZOrder:  0,
		MaskColor:      Color{0, 0, 0, 0.6},
		BorderColor:    Color{1, 0.85, 0.2, 1},
		BorderWidth:    3,
		Padding:        6,
		PulsePeriod:    1200 * time.Millisecond,
	}
}

// DefaultSettings returns the active settings.
func DefaultSettings() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return defaultSettings
}

// SetDefaultSettings replaces the active settings.
func SetDefaultSettings(s Settings) {
	settingsMu.Lock()
	defaultSettings = s
	settingsMu.Unlock()
}

// newSettingsViper returns a viper instance seeded with the builtin defaults
// and GUIDEMASK_ environment overrides.
func newSettingsViper() *viper.Viper {
	b := builtinSettings()
	v := viper.New()
	v.SetDefault("default_layer", b.DefaultLayer)
	v.SetDefault("default_timeout", b.DefaultTimeout)
	v.SetDefault("default_z_order", b.DefaultZOrder)
	v.SetDefault("mask_color", colorMap(b.MaskColor))
	v.SetDefault("border_color", colorMap(b.BorderColor))
	v.SetDefault("border_width", b.BorderWidth)
	v.SetDefault("padding", b.Padding)
	v.SetDefault("pulse_period", b.PulsePeriod)

	v.SetEnvPrefix("GUIDEMASK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func colorMap(c Color) map[string]any {
	return map[string]any{"r": c.R, "g": c.G, "b": c.B, "a": c.A}
}

func decodeSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return s, nil
}

// LoadSettings reads settings from path (TOML, YAML or JSON by extension).
// An empty path yields the builtin defaults plus environment overrides.
func LoadSettings(path string) (Settings, error) {
	v := newSettingsViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
		}
	}
	return decodeSettings(v)
}

// WatchSettings loads path, installs it as the default settings and keeps it
// current as the file changes. onChange may be nil. It runs on the watcher
// goroutine, so it must not touch scenes directly.
func WatchSettings(path string, onChange func(Settings, fsnotify.Event)) error {
	v := newSettingsViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read settings %s: %w", path, err)
	}
	s, err := decodeSettings(v)
	if err != nil {
		return err
	}
	SetDefaultSettings(s)

	v.OnConfigChange(func(e fsnotify.Event) {
		s, err := decodeSettings(v)
		if err != nil {
			logger.Warn("settings reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		SetDefaultSettings(s)
		logger.Info("settings reloaded", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		if onChange != nil {
			onChange(s, e)
		}
	})
	v.WatchConfig()
	return nil
}
