package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kjstillabower/weather-tui/internal/client"
	"github.com/kjstillabower/weather-tui/internal/models"
)

type mockFetcher struct {
	result models.ForecastResult
	err    error
	calls  int
	corrID string
	req    models.ForecastRequest
}

func (m *mockFetcher) Fetch(ctx context.Context, req models.ForecastRequest) (models.ForecastResult, error) {
	m.calls++
	m.req = req
	m.corrID, _ = ctx.Value(client.CorrelationIDKey{}).(string)
	return m.result, m.err
}

var request = models.ForecastRequest{
	Coordinate:  models.Coordinate{Latitude: 40.7128, Longitude: -74.0060},
	DailyFields: []models.Field{models.FieldTemperatureMax},
	HorizonDays: 7,
}

func newObservedService(f client.Fetcher) (*ForecastService, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewForecastService(f, zap.New(core)), logs
}

func TestForecastService_Load_Success(t *testing.T) {
	raw := []byte(`{"daily":{"time":["2024-08-02"],"temperature_2m_max":[82.76]}}`)
	fetcher := &mockFetcher{result: models.ForecastResult{
		Daily: []models.DailyEntry{{Date: time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)}},
		Raw:   raw,
	}}
	svc, logs := newObservedService(fetcher)

	snap := svc.Load(context.Background(), request)

	if !snap.HasData() || snap.Err != nil {
		t.Fatalf("Load() = %+v, want data and no error", snap)
	}
	if snap.Coordinate != request.Coordinate {
		t.Errorf("Coordinate = %+v, want %+v", snap.Coordinate, request.Coordinate)
	}
	if snap.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
	if fetcher.calls != 1 {
		t.Errorf("Fetch called %d times, want 1", fetcher.calls)
	}
	if fetcher.corrID == "" {
		t.Error("Fetch context carried no correlation id")
	}

	fetched := logs.FilterMessage("forecast fetched").All()
	if len(fetched) != 1 {
		t.Fatalf("got %d 'forecast fetched' entries, want 1", len(fetched))
	}
	payload, ok := fetched[0].ContextMap()["payload"]
	if !ok || payload != string(raw) {
		t.Errorf("payload field = %v, want raw body", payload)
	}
	if id := fetched[0].ContextMap()["correlation_id"]; id != fetcher.corrID {
		t.Errorf("logged correlation_id = %v, want %q", id, fetcher.corrID)
	}
}

func TestForecastService_Load_DegradesOnError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCategory client.ErrorCategory
	}{
		{"transport", &client.FetchError{Kind: client.KindTransport, Err: errors.New("dial tcp: connection refused")}, client.ErrorCategoryNetwork},
		{"decode", &client.FetchError{Kind: client.KindDecode, Err: errors.New("bad json")}, client.ErrorCategoryDecode},
		{"remote", &client.FetchError{Kind: client.KindRemote, Status: 400, Reason: "bad field"}, client.ErrorCategoryRemote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{err: tt.err}
			svc, logs := newObservedService(fetcher)

			snap := svc.Load(context.Background(), request)

			if snap.HasData() {
				t.Errorf("Load() HasData = true on error, want false")
			}
			if !errors.Is(snap.Err, tt.err) {
				t.Errorf("Err = %v, want %v", snap.Err, tt.err)
			}
			if fetcher.calls != 1 {
				t.Errorf("Fetch called %d times, want exactly 1 (no retries)", fetcher.calls)
			}
			failed := logs.FilterMessage("forecast fetch failed; showing no data").All()
			if len(failed) != 1 {
				t.Fatalf("got %d failure entries, want 1", len(failed))
			}
			if failed[0].Level != zapcore.ErrorLevel {
				t.Errorf("failure level = %v, want error", failed[0].Level)
			}
			if got := failed[0].ContextMap()["category"]; got != string(tt.wantCategory) {
				t.Errorf("category = %v, want %v", got, tt.wantCategory)
			}
		})
	}
}

func TestForecastService_Load_PassesRequestThrough(t *testing.T) {
	fetcher := &mockFetcher{}
	NewForecastService(fetcher, nil).Load(context.Background(), request)
	if fetcher.req.HorizonDays != 7 || len(fetcher.req.DailyFields) != 1 {
		t.Errorf("Fetch req = %+v, want %+v", fetcher.req, request)
	}
}
