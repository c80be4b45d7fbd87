package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kjstillabower/weather-tui/internal/client"
	"github.com/kjstillabower/weather-tui/internal/models"
	"github.com/kjstillabower/weather-tui/internal/validation"
	"github.com/kjstillabower/weather-tui/internal/view"
)

// Forecast API limits.
const (
	MinHorizonDays = 1
	MaxHorizonDays = 16
)

// MaxPollInterval bounds input latency: a key press is seen within one poll.
const MaxPollInterval = 50 * time.Millisecond

// DefaultLocation is used when no coordinate is configured or given on the command line.
var DefaultLocation = models.Coordinate{Latitude: 40.7128, Longitude: -74.0060}

// Config holds application configuration loaded from YAML and env.
type Config struct {
	WeatherAPIURL     string
	WeatherAPITimeout time.Duration

	Location models.Coordinate

	CurrentFields   []models.Field
	DailyFields     []models.Field
	TemperatureUnit string // "fahrenheit" or "celsius"
	HorizonDays     int
	Timezone        string

	ViewMode     view.Mode
	ChartField   models.Field
	AxisMargin   float64
	TickStep     float64
	PollInterval time.Duration
	QuitKey      string

	LogFile  string
	LogLevel string

	MetricsTextfile     string
	DebugAddr           string
	DebugRateLimitRPS   int // 0 disables the limiter
	DebugRateLimitBurst int
	ShutdownTimeout     time.Duration
}

type fileConfig struct {
	WeatherAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather_api"`

	Location struct {
		Latitude  *float64 `yaml:"latitude"`
		Longitude *float64 `yaml:"longitude"`
	} `yaml:"location"`

	Forecast struct {
		CurrentFields   []string `yaml:"current_fields"`
		DailyFields     []string `yaml:"daily_fields"`
		TemperatureUnit string   `yaml:"temperature_unit"`
		HorizonDays     int      `yaml:"horizon_days"`
		Timezone        string   `yaml:"timezone"`
	} `yaml:"forecast"`

	View struct {
		Mode         string   `yaml:"mode"`
		ChartField   string   `yaml:"chart_field"`
		AxisMargin   *float64 `yaml:"axis_margin"`
		TickStep     *float64 `yaml:"tick_step"`
		PollInterval string   `yaml:"poll_interval"`
		QuitKey      string   `yaml:"quit_key"`
	} `yaml:"view"`

	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`

	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`

	Debug struct {
		Addr           string `yaml:"addr"`
		RateLimitRPS   *int   `yaml:"rate_limit_rps"`
		RateLimitBurst int    `yaml:"rate_limit_burst"`
	} `yaml:"debug"`

	Shutdown struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"shutdown"`
}

var (
	defaultCurrentFields = []models.Field{
		models.FieldTemperature,
		models.FieldApparentTemperature,
		models.FieldRelativeHumidity,
		models.FieldWindSpeed,
	}
	defaultDailyFields = []models.Field{
		models.FieldTemperatureMax,
		models.FieldTemperatureMin,
		models.FieldPrecipitationSum,
		models.FieldWindSpeedMax,
	}
)

// Load reads .env (if present), then config/{ENV_NAME}.yaml (default dev), then env overrides.
// A missing dev.yaml yields built-in defaults; a missing file for an explicit ENV_NAME is an error.
// Call from project root.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := os.Getenv("ENV_NAME")
	explicitEnv := env != ""
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")

	var fc fileConfig
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	case os.IsNotExist(err) && !explicitEnv:
		// built-in defaults
	case os.IsNotExist(err):
		return nil, fmt.Errorf("config file not found: %s", configPath)
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := fromFile(fc)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromFile(fc fileConfig) (*Config, error) {
	cfg := &Config{}

	cfg.WeatherAPIURL = strings.TrimSpace(fc.WeatherAPI.URL)
	if cfg.WeatherAPIURL == "" {
		cfg.WeatherAPIURL = client.DefaultAPIURL
	}
	cfg.WeatherAPITimeout = parseDurationOrZero(fc.WeatherAPI.Timeout, 10*time.Second)

	cfg.Location = DefaultLocation
	if fc.Location.Latitude != nil {
		cfg.Location.Latitude = *fc.Location.Latitude
	}
	if fc.Location.Longitude != nil {
		cfg.Location.Longitude = *fc.Location.Longitude
	}

	cfg.CurrentFields = toFields(fc.Forecast.CurrentFields, defaultCurrentFields)
	cfg.DailyFields = toFields(fc.Forecast.DailyFields, defaultDailyFields)
	cfg.TemperatureUnit = strings.ToLower(strings.TrimSpace(fc.Forecast.TemperatureUnit))
	if cfg.TemperatureUnit == "" {
		cfg.TemperatureUnit = "fahrenheit"
	}
	cfg.HorizonDays = fc.Forecast.HorizonDays
	if cfg.HorizonDays == 0 {
		cfg.HorizonDays = 7
	}
	cfg.Timezone = strings.TrimSpace(fc.Forecast.Timezone)
	if cfg.Timezone == "" {
		cfg.Timezone = "auto"
	}

	mode := strings.TrimSpace(fc.View.Mode)
	if mode == "" {
		mode = view.ModeSummary.String()
	}
	m, err := view.ParseMode(mode)
	if err != nil {
		return nil, fmt.Errorf("view.mode: %w", err)
	}
	cfg.ViewMode = m
	cfg.ChartField = models.Field(strings.TrimSpace(fc.View.ChartField))
	if cfg.ChartField == "" {
		cfg.ChartField = models.FieldTemperatureMax
	}
	cfg.AxisMargin = 5
	if fc.View.AxisMargin != nil {
		cfg.AxisMargin = *fc.View.AxisMargin
	}
	cfg.TickStep = 5
	if fc.View.TickStep != nil {
		cfg.TickStep = *fc.View.TickStep
	}
	cfg.PollInterval = parseDurationOrZero(fc.View.PollInterval, 50*time.Millisecond)
	cfg.QuitKey = fc.View.QuitKey
	if cfg.QuitKey == "" {
		cfg.QuitKey = "q"
	}

	cfg.LogFile = strings.TrimSpace(fc.Log.File)
	if cfg.LogFile == "" {
		cfg.LogFile = "weather-tui.log"
	}
	cfg.LogLevel = strings.TrimSpace(fc.Log.Level)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.MetricsTextfile = strings.TrimSpace(fc.Metrics.Textfile)
	cfg.DebugAddr = strings.TrimSpace(fc.Debug.Addr)
	cfg.DebugRateLimitRPS = 10
	if fc.Debug.RateLimitRPS != nil {
		cfg.DebugRateLimitRPS = *fc.Debug.RateLimitRPS
	}
	cfg.DebugRateLimitBurst = fc.Debug.RateLimitBurst
	if cfg.DebugRateLimitBurst <= 0 {
		cfg.DebugRateLimitBurst = 2 * cfg.DebugRateLimitRPS
	}
	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 5*time.Second)
	return cfg, nil
}

// applyEnv lets the environment override selected file settings.
func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("WEATHER_API_URL")); v != "" {
		cfg.WeatherAPIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("VIEW_MODE")); v != "" {
		m, err := view.ParseMode(v)
		if err != nil {
			return fmt.Errorf("VIEW_MODE: %w", err)
		}
		cfg.ViewMode = m
	}
	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.LogFile = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("DEBUG_ADDR"); ok {
		cfg.DebugAddr = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("METRICS_TEXTFILE"); ok {
		cfg.MetricsTextfile = strings.TrimSpace(v)
	}
	return nil
}

func toFields(names []string, fallback []models.Field) []models.Field {
	if len(names) == 0 {
		return append([]models.Field(nil), fallback...)
	}
	fields := make([]models.Field, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			fields = append(fields, models.Field(n))
		}
	}
	return fields
}

// withField returns fields with f appended when it is not already present.
// The input slice is never modified.
func withField(fields []models.Field, f models.Field) []models.Field {
	out := append([]models.Field(nil), fields...)
	if f == "" {
		return out
	}
	for _, existing := range fields {
		if existing == f {
			return out
		}
	}
	return append(out, f)
}

// UnitSymbol returns the suffix for tick labels when the response omits units.
func (c *Config) UnitSymbol() string {
	if c.TemperatureUnit == "celsius" {
		return "°C"
	}
	return "°F"
}

// ForecastRequest builds the request for coord from the configured fields.
// The chart field is always requested, even when daily_fields omits it.
func (c *Config) ForecastRequest(coord models.Coordinate) models.ForecastRequest {
	return models.ForecastRequest{
		Coordinate:      coord,
		CurrentFields:   c.CurrentFields,
		DailyFields:     withField(c.DailyFields, c.ChartField),
		TemperatureUnit: c.TemperatureUnit,
		HorizonDays:     c.HorizonDays,
		Timezone:        c.Timezone,
	}
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d := parseDurationOrZero(s, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseDurationOrZero parses a duration string, returning defaultVal on empty string or parse error.
// Returns zero or negative durations as-is so validate can reject them.
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	if cfg.WeatherAPITimeout <= 0 {
		return fmt.Errorf("weather_api.timeout must be positive")
	}
	if cfg.AxisMargin < 0 {
		return fmt.Errorf("view.axis_margin must not be negative, got %v", cfg.AxisMargin)
	}
	if cfg.TickStep <= 0 {
		return fmt.Errorf("view.tick_step must be positive, got %v", cfg.TickStep)
	}
	if cfg.PollInterval <= 0 || cfg.PollInterval > MaxPollInterval {
		return fmt.Errorf("view.poll_interval must be in (0, %v], got %v", MaxPollInterval, cfg.PollInterval)
	}
	if cfg.HorizonDays < MinHorizonDays || cfg.HorizonDays > MaxHorizonDays {
		return fmt.Errorf("forecast.horizon_days must be between %d and %d, got %d", MinHorizonDays, MaxHorizonDays, cfg.HorizonDays)
	}
	switch cfg.TemperatureUnit {
	case "fahrenheit", "celsius":
	default:
		return fmt.Errorf("forecast.temperature_unit must be fahrenheit or celsius, got %q", cfg.TemperatureUnit)
	}
	if cfg.DebugRateLimitRPS < 0 {
		return fmt.Errorf("debug.rate_limit_rps must not be negative, got %d", cfg.DebugRateLimitRPS)
	}
	if err := validation.ValidateCoordinate(cfg.Location); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	return nil
}
