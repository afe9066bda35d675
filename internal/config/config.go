package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-ticker/internal/weather"
)

type AppConfig struct {
	// Settings is the initial settings block applied to the scheduler.
	Settings weather.Settings

	// FeedBaseURL overrides the one-call endpoint.
	FeedBaseURL string

	RefreshInterval  time.Duration
	RotationInterval time.Duration
	HTTPTimeout      time.Duration

	AppEnv   string
	LogLevel slog.Level
	Port     string

	MQTT MQTTConfig
}

// MQTTConfig configures the optional display-text publisher.
// An empty Broker disables it.
type MQTTConfig struct {
	Broker   string
	Port     int
	Topic    string
	ClientID string
}

// Enabled reports whether a broker has been configured.
func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings

	cfg.FeedBaseURL = os.Getenv("FEED_BASE_URL")

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "5m"); err != nil {
		return nil, err
	}
	if cfg.RotationInterval, err = getenvDuration("ROTATION_INTERVAL", "8s"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	cfg.AppEnv = strings.TrimSpace(getenvDefault("APP_ENV", "dev"))
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	if cfg.LogLevel, err = parseLogLevel(getenvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	cfg.Port = getenvDefault("PORT", "8080")

	mqttPort, err := getenvInt("MQTT_PORT", 1883)
	if err != nil {
		return nil, err
	}
	cfg.MQTT = MQTTConfig{
		Broker:   strings.TrimSpace(os.Getenv("MQTT_BROKER")),
		Port:     mqttPort,
		Topic:    getenvDefault("MQTT_TOPIC", "weather-ticker/display"),
		ClientID: getenvDefault("MQTT_CLIENT_ID", "weather-ticker-"+uuid.NewString()),
	}

	return cfg, nil
}

// loadSettings builds the initial settings block, starting from the defaults.
func loadSettings() (weather.Settings, error) {
	s := weather.DefaultSettings()

	if v := os.Getenv("WEATHER_LATITUDE"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return s, fmt.Errorf("invalid WEATHER_LATITUDE: %w", err)
		}
		s.Latitude = f
	}
	if v := os.Getenv("WEATHER_LONGITUDE"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return s, fmt.Errorf("invalid WEATHER_LONGITUDE: %w", err)
		}
		s.Longitude = f
	}
	s.APIKey = strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY"))
	var err error
	if s.Units, err = getenvInt("WEATHER_UNITS", s.Units); err != nil {
		return s, err
	}
	if s.DisplayMode, err = getenvInt("WEATHER_DISPLAY_MODE", s.DisplayMode); err != nil {
		return s, err
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid weather settings: %w", err)
	}
	return s, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
