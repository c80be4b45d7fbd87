package client

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/kjstillabower/weather-tui/internal/models"
)

const dateLayout = "2006-01-02"

// Open-Meteo reports current.time without seconds or zone, in the requested timezone.
var currentTimeLayouts = []string{"2006-01-02T15:04", time.RFC3339}

type forecastResponse struct {
	Latitude     float64                    `json:"latitude"`
	Longitude    float64                    `json:"longitude"`
	Timezone     string                     `json:"timezone"`
	Elevation    float64                    `json:"elevation"`
	CurrentUnits map[string]string          `json:"current_units"`
	Current      map[string]json.RawMessage `json:"current"`
	DailyUnits   map[string]string          `json:"daily_units"`
	Daily        map[string]json.RawMessage `json:"daily"`
}

// decodeForecast parses an Open-Meteo body. The provider sends daily data as
// columns (one array per field, aligned with daily.time); they are pivoted into
// one DailyEntry per date in source order. Null or missing cells leave the field
// out of that entry's Values. Daily columns that are not numeric (sunrise, sunset)
// are left out of every entry and their names returned as skipped.
func decodeForecast(body []byte) (models.ForecastResult, []string, error) {
	var resp forecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.ForecastResult{}, nil, fmt.Errorf("parse response: %w", err)
	}

	result := models.ForecastResult{
		Latitude:  resp.Latitude,
		Longitude: resp.Longitude,
		Timezone:  resp.Timezone,
		Elevation: resp.Elevation,
		Raw:       body,
	}

	if resp.Current != nil {
		current, err := decodeCurrent(resp.Current, resp.CurrentUnits)
		if err != nil {
			return models.ForecastResult{}, nil, err
		}
		result.Current = current
	}

	var skipped []string
	if resp.Daily != nil {
		daily, skippedCols, err := decodeDaily(resp.Daily, resp.DailyUnits)
		if err != nil {
			return models.ForecastResult{}, nil, err
		}
		result.Daily = daily
		skipped = skippedCols
	}

	return result, skipped, nil
}

func decodeCurrent(raw map[string]json.RawMessage, units map[string]string) (*models.Current, error) {
	current := &models.Current{Values: make(map[models.Field]models.Measurement)}

	for key, value := range raw {
		switch key {
		case "time":
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return nil, fmt.Errorf("parse current.time: %w", err)
			}
			t, err := parseCurrentTime(s)
			if err != nil {
				return nil, err
			}
			current.Time = t
		case "interval":
			if err := json.Unmarshal(value, &current.Interval); err != nil {
				return nil, fmt.Errorf("parse current.interval: %w", err)
			}
		default:
			var v *float64
			if err := json.Unmarshal(value, &v); err != nil {
				return nil, fmt.Errorf("parse current.%s: %w", key, err)
			}
			if v == nil {
				continue
			}
			current.Values[models.Field(key)] = models.Measurement{Value: *v, Unit: units[key]}
		}
	}
	return current, nil
}

func parseCurrentTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range currentTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse current.time %q: %w", s, lastErr)
}

func decodeDaily(raw map[string]json.RawMessage, units map[string]string) ([]models.DailyEntry, []string, error) {
	timeColumn, ok := raw["time"]
	if !ok {
		return nil, nil, fmt.Errorf("parse daily: missing time column")
	}
	var dates []string
	if err := json.Unmarshal(timeColumn, &dates); err != nil {
		return nil, nil, fmt.Errorf("parse daily.time: %w", err)
	}

	entries := make([]models.DailyEntry, len(dates))
	for i, d := range dates {
		date, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, nil, fmt.Errorf("parse daily.time[%d]: %w", i, err)
		}
		entries[i] = models.DailyEntry{Date: date, Values: make(map[models.Field]models.Measurement)}
	}

	// Sorted so skipped columns are reported deterministically.
	keys := make([]string, 0, len(raw))
	for key := range raw {
		if key != "time" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var skipped []string
	for _, key := range keys {
		var column []*float64
		if err := json.Unmarshal(raw[key], &column); err != nil {
			skipped = append(skipped, key)
			continue
		}
		for i := 0; i < len(column) && i < len(entries); i++ {
			if column[i] == nil {
				continue
			}
			entries[i].Values[models.Field(key)] = models.Measurement{Value: *column[i], Unit: units[key]}
		}
	}
	return entries, skipped, nil
}
