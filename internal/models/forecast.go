package models

import "time"

// Field names a provider variable (e.g. "temperature_2m_max"). Names are not
// validated locally; unknown ones are rejected by the remote service.
type Field string

const (
	FieldTemperature         Field = "temperature_2m"
	FieldApparentTemperature Field = "apparent_temperature"
	FieldRelativeHumidity    Field = "relative_humidity_2m"
	FieldWindSpeed           Field = "wind_speed_10m"
	FieldTemperatureMax      Field = "temperature_2m_max"
	FieldTemperatureMin      Field = "temperature_2m_min"
	FieldPrecipitationSum    Field = "precipitation_sum"
	FieldWindSpeedMax        Field = "wind_speed_10m_max"
)

// Coordinate is a point in degrees. Valid latitude is [-90, 90], longitude [-180, 180].
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ForecastRequest describes a single fetch. Built once and consumed by one Fetch call.
type ForecastRequest struct {
	Coordinate      Coordinate
	CurrentFields   []Field
	DailyFields     []Field
	TemperatureUnit string // "celsius" or "fahrenheit"
	HorizonDays     int
	Timezone        string
}

// Measurement is a value with its optional unit.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Current holds the current-conditions block.
type Current struct {
	Time     time.Time             `json:"time"`
	Interval int                   `json:"interval"`
	Values   map[Field]Measurement `json:"values"`
}

// DailyEntry is one calendar day of measurements. A field is absent from Values
// when the provider returned null or no value for that day.
type DailyEntry struct {
	Date   time.Time             `json:"date"`
	Values map[Field]Measurement `json:"values"`
}

// ForecastResult is the decoded provider response. Daily is nil when the response
// carried no daily section. Raw is the response body as received.
type ForecastResult struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Timezone  string       `json:"timezone,omitempty"`
	Elevation float64      `json:"elevation"`
	Current   *Current     `json:"current,omitempty"`
	Daily     []DailyEntry `json:"daily,omitempty"`
	Raw       []byte       `json:"-"`
}

// Snapshot is the outcome of the one-shot fetch. Exactly one of Result and Err is set.
// It is not mutated after construction.
type Snapshot struct {
	Coordinate Coordinate
	Result     *ForecastResult
	Err        error
	FetchedAt  time.Time
}

// HasData reports whether the fetch produced a result.
func (s Snapshot) HasData() bool {
	return s.Result != nil
}
