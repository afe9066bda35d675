package weather

import (
	"github.com/go-playground/validator/v10"
)

// RotateModes is the Settings.DisplayMode value that enables rotation.
const RotateModes = -1

var validate = validator.New()

// Settings is the configuration block supplied by the external settings store.
// DisplayMode -1 enables rotation; 0..3 pins a single mode.
type Settings struct {
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	APIKey      string  `json:"apiKey"`
	Units       int     `json:"units" validate:"oneof=0 1"`
	DisplayMode int     `json:"displayMode" validate:"gte=-1,lte=3"`
}

// DefaultSettings returns the settings used when nothing has been configured.
func DefaultSettings() Settings {
	return Settings{
		Latitude:    51.507222,
		Longitude:   -0.1275,
		APIKey:      "",
		Units:       int(UnitsMetric),
		DisplayMode: RotateModes,
	}
}

// Validate checks the settings ranges.
func (s Settings) Validate() error {
	return validate.Struct(s)
}

// Config converts the settings into the form the schedulers consume.
func (s Settings) Config() Config {
	cfg := Config{
		Location: Location{
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		},
		APIKey: s.APIKey,
		Units:  Units(s.Units),
	}
	if s.DisplayMode == RotateModes {
		cfg.RotationEnabled = true
		cfg.DisplayMode = ModeSummary
	} else {
		cfg.DisplayMode = DisplayMode(s.DisplayMode)
	}
	return cfg
}

// SettingsFromConfig is the inverse of Settings.Config.
func SettingsFromConfig(cfg Config) Settings {
	s := Settings{
		Latitude:    cfg.Location.Latitude,
		Longitude:   cfg.Location.Longitude,
		APIKey:      cfg.APIKey,
		Units:       int(cfg.Units),
		DisplayMode: int(cfg.DisplayMode),
	}
	if cfg.RotationEnabled {
		s.DisplayMode = RotateModes
	}
	return s
}
