package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Open-Meteo call outcomes. There is one call per run, so this is mostly useful in the textfile.
	WeatherAPICallsTotal *prometheus.CounterVec

	// External API latency per request.
	WeatherAPIDuration *prometheus.HistogramVec

	// Frames drawn by the render loop. Roughly run time / poll timeout.
	FramesRenderedTotal prometheus.Counter

	// Input events observed while polling, by kind (key_press, other).
	InputEventsTotal *prometheus.CounterVec

	// Debug server request rate.
	HTTPRequestsTotal *prometheus.CounterVec

	// Debug server latency per request.
	HTTPRequestDuration *prometheus.HistogramVec

	// Debug server requests rejected by the rate limiter.
	RateLimitDeniedTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of Open-Meteo forecast calls",
		},
		[]string{"status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "Open-Meteo latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	FramesRenderedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "framesRenderedTotal",
			Help: "Total number of frames drawn by the render loop",
		},
	)
	InputEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inputEventsTotal",
			Help: "Total number of terminal input events observed while polling",
		},
		[]string{"kind"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of debug server HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "Debug server request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of debug server requests denied by the rate limiter",
		},
	)

	registry.MustRegister(
		WeatherAPICallsTotal, WeatherAPIDuration,
		FramesRenderedTotal, InputEventsTotal,
		HTTPRequestsTotal, HTTPRequestDuration,
		RateLimitDeniedTotal,
	)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry in text exposition format for node_exporter's
// textfile collector. The write is atomic (temp file + rename).
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, registry)
}
