package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-tui/internal/client"
	"github.com/kjstillabower/weather-tui/internal/models"
)

// ForecastService performs the one-shot fetch that feeds the render loop.
//
// Failure policy: a failed fetch never aborts the program. Load returns a
// Snapshot without a result and every view mode shows its no-data placeholder.
// There is no second attempt within a run.
type ForecastService struct {
	client client.Fetcher
	logger *zap.Logger
	now    func() time.Time
}

// NewForecastService creates a ForecastService. A nil logger discards output.
func NewForecastService(c client.Fetcher, logger *zap.Logger) *ForecastService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForecastService{
		client: c,
		logger: logger,
		now:    time.Now,
	}
}

// Load fetches req once and returns the snapshot the rest of the run renders.
// The result is all-or-nothing: either the complete decoded response or none.
func (s *ForecastService) Load(ctx context.Context, req models.ForecastRequest) models.Snapshot {
	corrID := uuid.New().String()
	ctx = context.WithValue(ctx, client.CorrelationIDKey{}, corrID)
	logger := s.logger.With(zap.String("correlation_id", corrID))

	logger.Info("fetching forecast",
		zap.Float64("latitude", req.Coordinate.Latitude),
		zap.Float64("longitude", req.Coordinate.Longitude),
		zap.Int("horizon_days", req.HorizonDays),
		zap.String("temperature_unit", req.TemperatureUnit))

	start := s.now()
	result, err := s.client.Fetch(ctx, req)
	snap := models.Snapshot{Coordinate: req.Coordinate, FetchedAt: s.now()}
	elapsed := snap.FetchedAt.Sub(start)

	if err != nil {
		logger.Error("forecast fetch failed; showing no data",
			zap.Error(err),
			zap.String("category", string(client.CategorizeError(err))),
			zap.Duration("duration", elapsed))
		snap.Err = err
		return snap
	}

	logger.Info("forecast fetched",
		zap.Duration("duration", elapsed),
		zap.Bool("current", result.Current != nil),
		zap.Int("daily_entries", len(result.Daily)),
		zap.ByteString("payload", result.Raw))
	snap.Result = &result
	return snap
}
