package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-tui/internal/models"
	"github.com/kjstillabower/weather-tui/internal/observability"
	"github.com/kjstillabower/weather-tui/internal/validation"
)

// DefaultAPIURL is the Open-Meteo forecast endpoint.
const DefaultAPIURL = "https://api.open-meteo.com/v1/forecast"

// CorrelationIDKey is the context key carrying the id sent as X-Correlation-ID.
type CorrelationIDKey struct{}

// Fetcher performs a single forecast fetch.
type Fetcher interface {
	Fetch(ctx context.Context, req models.ForecastRequest) (models.ForecastResult, error)
}

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// OpenMeteoClient issues exactly one request per Fetch. It never retries or caches.
type OpenMeteoClient struct {
	apiURL  *url.URL
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

func NewOpenMeteoClient(apiURL string, timeout time.Duration, logger *zap.Logger) (*OpenMeteoClient, error) {
	if strings.TrimSpace(apiURL) == "" {
		return nil, errors.New("API URL is required")
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL: %q is not absolute", apiURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenMeteoClient{
		apiURL:  u,
		timeout: timeout,
		logger:  logger,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Fetch requests the forecast described by req and decodes it. Failures are
// returned as *FetchError; see ErrTransport, ErrDecode and ErrRemote.
func (c *OpenMeteoClient) Fetch(ctx context.Context, req models.ForecastRequest) (models.ForecastResult, error) {
	if err := validation.ValidateCoordinate(req.Coordinate); err != nil {
		return models.ForecastResult{}, fmt.Errorf("%w: %w", ErrInvalidCoordinate, err)
	}

	start := time.Now()

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := c.buildRequest(reqCtx, req)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return models.ForecastResult{}, fmt.Errorf("build request: %w", err)
	}

	if corrID, ok := ctx.Value(CorrelationIDKey{}).(string); ok && corrID != "" {
		httpReq.Header.Set("X-Correlation-ID", corrID)
	}

	c.logger.Debug("forecast request", zap.String("url", httpReq.URL.String()))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(duration)
		return models.ForecastResult{}, &FetchError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(duration)

	if readErr != nil {
		return models.ForecastResult{}, &FetchError{Kind: KindTransport, Status: resp.StatusCode, Err: fmt.Errorf("read response body: %w", readErr)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.ForecastResult{}, remoteError(resp.StatusCode, body)
	}

	result, skipped, err := decodeForecast(body)
	if err != nil {
		return models.ForecastResult{}, &FetchError{Kind: KindDecode, Status: resp.StatusCode, Err: err}
	}
	if len(skipped) > 0 {
		c.logger.Warn("skipped non-numeric daily columns", zap.Strings("fields", skipped))
	}
	return result, nil
}

func (c *OpenMeteoClient) buildRequest(ctx context.Context, req models.ForecastRequest) (*http.Request, error) {
	u := *c.apiURL

	params := u.Query()
	params.Set("latitude", strconv.FormatFloat(req.Coordinate.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(req.Coordinate.Longitude, 'f', -1, 64))
	if len(req.CurrentFields) > 0 {
		params.Set("current", joinFields(req.CurrentFields))
	}
	if len(req.DailyFields) > 0 {
		params.Set("daily", joinFields(req.DailyFields))
	}
	if req.TemperatureUnit != "" {
		params.Set("temperature_unit", req.TemperatureUnit)
	}
	if req.HorizonDays > 0 {
		params.Set("forecast_days", strconv.Itoa(req.HorizonDays))
	}
	if req.Timezone != "" {
		params.Set("timezone", req.Timezone)
	}
	u.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	return httpReq, nil
}

func joinFields(fields []models.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}

// remoteError extracts the provider's {"error": true, "reason": "..."} body when present.
func remoteError(statusCode int, body []byte) error {
	var apiErr struct {
		Reason string `json:"reason"`
	}
	_ = json.Unmarshal(body, &apiErr)
	return &FetchError{Kind: KindRemote, Status: statusCode, Reason: apiErr.Reason}
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
