package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
	"github.com/clinicdesk/clinicdesk/internal/domain/scheduling"
	"github.com/clinicdesk/clinicdesk/internal/platform/middleware"
	"github.com/clinicdesk/clinicdesk/internal/platform/notification"
	"github.com/clinicdesk/clinicdesk/internal/platform/storeclient"
	"github.com/clinicdesk/clinicdesk/internal/platform/telemetry"
)

// now is the clock used for booking checks.
var now = time.Now

type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	metrics  *telemetry.Metrics
	notifier *notification.Notifier
	ctrl     *scheduling.Controller
	patients *identity.Service
	out      io.Writer
	output   string

	metricsSrv *http.Server
}

func newApp(flags *globalFlags, stdout, stderr io.Writer) (*app, error) {
	// Config
	cfg, err := config.LoadFile(flags.envFile)
	if err != nil {
		return nil, err
	}
	if flags.source != "" {
		cfg.DataSource = flags.source
	}
	if flags.storeURL != "" {
		cfg.StoreURL = flags.storeURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Logger
	logger := zerolog.New(stderr).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
	}
	logger = logger.Level(cfg.Level())

	a := &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  telemetry.NewMetrics(),
		notifier: notification.NewNotifier(stderr, logger),
		out:      stdout,
		output:   flags.output,
	}

	appts, dir, err := a.sources()
	if err != nil {
		return nil, err
	}
	a.ctrl = scheduling.NewController(appts, nil,
		scheduling.WithNotifier(a.notifier),
		scheduling.WithLogger(logger.With().Str("component", "appointments").Logger()),
		scheduling.WithStrictStatus(cfg.StrictStatus),
	)
	a.patients = identity.NewService(dir, dir, logger.With().Str("component", "patients").Logger())

	if cfg.MetricsAddr != "" {
		if err := a.serveMetrics(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// sources builds the data sources for the configured mode.
func (a *app) sources() (scheduling.AppointmentSource, identity.Directory, error) {
	if a.cfg.DataSource == config.SourceSample {
		a.logger.Info().Msg("using sample data")
		return scheduling.NewSampleSource(), identity.NewSampleDirectory(), nil
	}

	transport := middleware.Chain(http.DefaultTransport,
		middleware.Recovery(a.logger),
		middleware.RequestID(),
		middleware.Logger(a.logger),
		middleware.Metrics(a.metrics),
	)
	client, err := storeclient.New(storeclient.Config{
		BaseURL:   a.cfg.StoreURL,
		ListPath:  a.cfg.AppointmentsListPath,
		Timeout:   a.cfg.StoreTimeout,
		Transport: transport,
	})
	if err != nil {
		return nil, nil, err
	}

	if a.cfg.DataSource != config.SourceDemo {
		return client, client, nil
	}

	a.logger.Warn().Msg("demo mode: reads fall back to sample data when the store is unreachable")
	onFallback := func(op string, err error) {
		a.metrics.Fallback(op)
		a.notifier.Fallback(op, err)
	}
	appts := scheduling.NewFallbackSource(client, scheduling.NewSampleSource(), a.logger, onFallback)
	dir := identity.NewFallbackDirectory(client, identity.NewSampleDirectory(), a.logger, onFallback)
	return appts, dir, nil
}

func (a *app) serveMetrics() error {
	ln, err := net.Listen("tcp", a.cfg.MetricsAddr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	a.metricsSrv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.metricsSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Msg("metrics server error")
		}
	}()
	a.logger.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
	return nil
}

func (a *app) close() error {
	if a.metricsSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.metricsSrv.Shutdown(ctx)
}

// commandContext cancels on interrupt.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
