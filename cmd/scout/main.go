// Package main is the entry point for the seller-scout CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/fd1az/seller-scout/business/catalog"
	catalogDomain "github.com/fd1az/seller-scout/business/catalog/domain"
	"github.com/fd1az/seller-scout/business/profit"
	"github.com/fd1az/seller-scout/business/research"
	researchApp "github.com/fd1az/seller-scout/business/research/app"
	researchDI "github.com/fd1az/seller-scout/business/research/di"
	"github.com/fd1az/seller-scout/business/research/infra"
	"github.com/fd1az/seller-scout/business/scoring"
	"github.com/fd1az/seller-scout/business/screening"
	"github.com/fd1az/seller-scout/internal/apm"
	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/config"
	"github.com/fd1az/seller-scout/internal/health"
	"github.com/fd1az/seller-scout/internal/logger"
	"github.com/fd1az/seller-scout/internal/metrics"
	"github.com/fd1az/seller-scout/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

const usage = `usage: scout [flags] <command> [command flags]

commands:
  screen        apply filters, persist them for the session and list scored matches
  resume        list scored matches using the session's saved filters
  reset         clear the session's saved filters
  score <id>    show the opportunity score of one product
  leaderboard   list the highest margin products
  profit        compute per-unit profit for a listing
  serve-health  run the health and metrics endpoints until interrupted

flags:
`

type globalFlags struct {
	configPath string
	sessionID  string
	jsonOutput bool
	mode       string
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	var g globalFlags
	flag.StringVar(&g.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&g.sessionID, "session", "", "Session id for saved filters (default: new id)")
	flag.BoolVar(&g.jsonOutput, "json", false, "Write results as JSON")
	flag.StringVar(&g.mode, "mode", "", "Filter mode: local or remote (default from config)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("seller-scout %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, g, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if kind := catalogDomain.ClassifyFetchError(err); kind != catalogDomain.FetchUnknown {
			fmt.Fprintf(os.Stderr, "hint: %s\n", kind.Remediation())
		}
		if apperror.IsInputError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, g globalFlags, args []string) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeConfigurationError, "load config")
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Debug(ctx, "starting seller-scout",
		"version", version,
		"environment", cfg.App.Environment,
		"command", args[0],
	)

	stopTelemetry := setupTelemetry(ctx, cfg, log)
	defer stopTelemetry()

	healthServer := health.NewServer(cfg.Health.Port, version, func(err error) {
		log.Error(ctx, "health server failed", "error", err)
	})

	mono := monolith.New(cfg, log, monolith.WithHealthServer(healthServer))
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&screening.Module{}, // evaluator and filter state, used by catalog for local search
		&scoring.Module{},
		&profit.Module{},
		&catalog.Module{},
		&research.Module{}, // composes all of the above
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	svc := researchDI.GetResearchService(mono.Services())
	var reporter researchApp.Reporter = researchDI.GetReporter(mono.Services())
	if g.jsonOutput {
		reporter = infra.NewJSONReporter(os.Stdout)
	}

	cmd := &command{
		svc:      svc,
		reporter: reporter,
		log:      log,
		global:   g,
	}

	switch args[0] {
	case "screen":
		return cmd.screen(ctx, args[1:])
	case "resume":
		return cmd.resume(ctx, args[1:])
	case "reset":
		return cmd.reset(ctx)
	case "score":
		return cmd.score(ctx, args[1:])
	case "leaderboard":
		return cmd.leaderboard(ctx, args[1:])
	case "profit":
		return cmd.profit(ctx, args[1:])
	case "serve-health":
		return serveHealth(ctx, cfg, healthServer, log)
	default:
		return apperror.Validation(apperror.CodeInvalidInput, "unknown command "+strconv.Quote(args[0]))
	}
}

func setupTelemetry(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) func() {
	if !cfg.Telemetry.Enabled {
		return func() {}
	}

	traceProvider := apm.NewTraceProvider(log,
		apm.WithProvider(apm.Provider(cfg.Telemetry.TraceExporter)),
		apm.WithEndpoint(cfg.Telemetry.OTLPEndpoint),
		apm.WithHeaders(cfg.Telemetry.OTLPHeaders),
		apm.WithServiceName(cfg.Telemetry.ServiceName),
	)
	log.Info(ctx, "tracing initialized", "provider", cfg.Telemetry.TraceExporter, "endpoint", cfg.Telemetry.OTLPEndpoint)

	metricOpts := []metrics.OptionFn{
		metrics.WithServiceName(cfg.Telemetry.ServiceName),
		metrics.WithServiceVersion(version),
		metrics.WithPrometheus(),
	}
	if cfg.Telemetry.MetricsOTLP {
		metricOpts = append(metricOpts, metrics.WithOTLP(
			cfg.Telemetry.OTLPEndpoint,
			apm.ParseHeaders(cfg.Telemetry.OTLPHeaders),
			false,
		))
	}
	meterProvider, err := metrics.NewMetricProvider(metricOpts...)
	if err != nil {
		log.Warn(ctx, "metrics disabled", "error", err)
	}

	port := cfg.Telemetry.PrometheusPort
	if port == 0 {
		port = 9090
	}
	promServer := metrics.NewPrometheusServer(port)
	go func() {
		if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(ctx, "prometheus metrics server stopped", "error", err)
		}
	}()
	log.Info(ctx, "prometheus metrics server started", "port", port)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		promServer.Shutdown(shutdownCtx)
		if meterProvider != nil {
			meterProvider.Shutdown(shutdownCtx)
		}
		traceProvider.Stop()
	}
}

func serveHealth(ctx context.Context, cfg *config.Config, srv *health.Server, log logger.LoggerInterface) error {
	if err := srv.Start(); err != nil {
		return err
	}
	log.Info(ctx, "health server started", "port", cfg.Health.Port)

	<-ctx.Done()
	log.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func newSessionID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
