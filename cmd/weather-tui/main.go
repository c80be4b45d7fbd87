package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-tui/internal/client"
	"github.com/kjstillabower/weather-tui/internal/config"
	httphandler "github.com/kjstillabower/weather-tui/internal/http"
	"github.com/kjstillabower/weather-tui/internal/lifecycle"
	"github.com/kjstillabower/weather-tui/internal/models"
	"github.com/kjstillabower/weather-tui/internal/observability"
	"github.com/kjstillabower/weather-tui/internal/render"
	"github.com/kjstillabower/weather-tui/internal/service"
	"github.com/kjstillabower/weather-tui/internal/terminal"
	"github.com/kjstillabower/weather-tui/internal/validation"
	"github.com/kjstillabower/weather-tui/internal/view"
)

func main() {
	os.Exit(run())
}

func run() int {
	mode := flag.String("mode", "", "view mode: summary, chart or raw (overrides config)")
	field := flag.String("field", "", "daily field to chart, e.g. temperature_2m_min (overrides config)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-mode summary|chart|raw] [-field name] [lat lon]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	if *mode != "" {
		m, err := view.ParseMode(*mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "-mode: %v\n", err)
			return 1
		}
		cfg.ViewMode = m
	}
	if *field != "" {
		cfg.ChartField = models.Field(*field)
	}

	logger, err := observability.NewLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	coord, err := validation.ParseCoordinateArgs(flag.Args(), cfg.Location)
	if err != nil {
		logger.Warn("using default coordinate", zap.Error(err),
			zap.Float64("latitude", coord.Latitude), zap.Float64("longitude", coord.Longitude))
	}
	logger.Info("starting",
		zap.String("mode", cfg.ViewMode.String()),
		zap.Float64("latitude", coord.Latitude),
		zap.Float64("longitude", coord.Longitude))

	weatherClient, err := client.NewOpenMeteoClient(cfg.WeatherAPIURL, cfg.WeatherAPITimeout, logger)
	if err != nil {
		logger.Error("weather client", zap.Error(err))
		fmt.Fprintf(os.Stderr, "weather client: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lifecycle.SetPhase(lifecycle.PhaseFetching)
	snap := service.NewForecastService(weatherClient, logger).Load(ctx, cfg.ForecastRequest(coord))

	frame := view.Build(snap, view.Options{
		Mode:          cfg.ViewMode,
		ChartField:    cfg.ChartField,
		CurrentFields: cfg.CurrentFields,
		Margin:        cfg.AxisMargin,
		TickStep:      cfg.TickStep,
		FallbackUnit:  cfg.UnitSymbol(),
		QuitKey:       cfg.QuitKey,
	})

	var debugSrv *httphandler.Server
	if cfg.DebugAddr != "" {
		debugSrv, err = httphandler.NewServer(httphandler.ServerConfig{
			Addr:           cfg.DebugAddr,
			RateLimitRPS:   cfg.DebugRateLimitRPS,
			RateLimitBurst: cfg.DebugRateLimitBurst,
		}, httphandler.NewHandler(snap, logger), logger)
		if err != nil {
			logger.Error("debug server disabled", zap.String("addr", cfg.DebugAddr), zap.Error(err))
		} else {
			debugSrv.Start()
		}
	}

	exitCode := runTerminal(ctx, frame, cfg, logger)

	lifecycle.SetPhase(lifecycle.PhaseTerminating)
	if debugSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		if err := debugSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("debug server shutdown", zap.Error(err))
		}
		cancel()
	}
	if err := observability.FlushTelemetry(context.Background(), logger, cfg.MetricsTextfile); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}
	logger.Info("exit", zap.Int("code", exitCode))
	return exitCode
}

// runTerminal owns the screen from init to teardown. Close runs on every path
// once Open has succeeded.
func runTerminal(ctx context.Context, frame view.Frame, cfg *config.Config, logger *zap.Logger) int {
	term, err := terminal.Open()
	if err != nil {
		logger.Error("terminal init", zap.Error(err))
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		return 1
	}
	defer func() {
		if err := term.Close(); err != nil {
			logger.Warn("terminal teardown", zap.Error(err))
		}
	}()

	lifecycle.SetPhase(lifecycle.PhaseRunning)
	loop := render.NewLoop(term, frame, render.Options{
		PollTimeout: cfg.PollInterval,
		QuitKey:     cfg.QuitKey,
	}, logger)
	if err := loop.Run(ctx); err != nil {
		logger.Error("render loop", zap.Error(err), zap.Int("frames", loop.Frames()))
		return 1
	}
	logger.Info("render loop finished", zap.Int("frames", loop.Frames()))
	return 0
}
