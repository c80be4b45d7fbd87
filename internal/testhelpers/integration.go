//go:build integration
// +build integration

package testhelpers

import (
	"os"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/kjstillabower/weather-tui/internal/client"
	"github.com/kjstillabower/weather-tui/internal/models"
	"github.com/kjstillabower/weather-tui/internal/service"
)

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	APIURL  string
	Timeout time.Duration
}

// GetIntegrationConfig loads integration test configuration from environment.
// Skips test unless WEATHER_INTEGRATION is set, since these tests call the live API.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	t.Helper()
	if os.Getenv("WEATHER_INTEGRATION") == "" {
		t.Skip("WEATHER_INTEGRATION not set, skipping integration test")
	}

	apiURL := os.Getenv("WEATHER_API_URL")
	if apiURL == "" {
		apiURL = client.DefaultAPIURL
	}
	return IntegrationTestConfig{APIURL: apiURL, Timeout: 10 * time.Second}
}

// SetupIntegrationClient creates an Open-Meteo client that logs to the test output.
func SetupIntegrationClient(t *testing.T, cfg IntegrationTestConfig) *client.OpenMeteoClient {
	t.Helper()
	c, err := client.NewOpenMeteoClient(cfg.APIURL, cfg.Timeout, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewOpenMeteoClient() error = %v", err)
	}
	return c
}

// SetupIntegrationService creates a forecast service backed by the live API.
func SetupIntegrationService(t *testing.T, cfg IntegrationTestConfig) *service.ForecastService {
	t.Helper()
	return service.NewForecastService(SetupIntegrationClient(t, cfg), zaptest.NewLogger(t))
}

// NYCRequest is a small request covering both current and daily blocks.
func NYCRequest(days int) models.ForecastRequest {
	return models.ForecastRequest{
		Coordinate:      models.Coordinate{Latitude: 40.7128, Longitude: -74.0060},
		CurrentFields:   []models.Field{models.FieldTemperature, models.FieldWindSpeed},
		DailyFields:     []models.Field{models.FieldTemperatureMax},
		TemperatureUnit: "fahrenheit",
		HorizonDays:     days,
		Timezone:        "auto",
	}
}
