// Foundline Core - Lost and Found Kiosk Service
//
// This is the main entry point for the Foundline Core application. It runs
// the kiosk's lost-and-found registry: registered identities file lost and
// found reports over HTTP, found reports pulse a remote per-category LED
// indicator, and administrators and operators manage registrations, report
// history, and the indicator itself.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/foundline/foundline-core/migrations"

	"github.com/foundline/foundline-core/internal/api"
	"github.com/foundline/foundline-core/internal/auth"
	"github.com/foundline/foundline-core/internal/infrastructure/config"
	"github.com/foundline/foundline-core/internal/infrastructure/database"
	"github.com/foundline/foundline-core/internal/infrastructure/influxdb"
	"github.com/foundline/foundline-core/internal/infrastructure/logging"
	"github.com/foundline/foundline-core/internal/registry"
	"github.com/foundline/foundline-core/internal/report"
	sig "github.com/foundline/foundline-core/internal/signal"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// sessionSweepInterval is how often expired sessions are dropped.
const sessionSweepInterval = 5 * time.Minute

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Foundline Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "kiosk", cfg.Kiosk.ID)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Repositories
	identityRepo := registry.NewSQLiteRepository(db.DB)
	reportRepo := report.NewSQLiteRepository(db.DB)
	credentialRepo := auth.NewCredentialRepository(db.DB)

	// Seed empty credential pools on first boot
	if _, seedErr := auth.SeedPool(ctx, credentialRepo, auth.PoolAdministrator, "admin", log.Logger); seedErr != nil {
		return fmt.Errorf("seeding administrator pool: %w", seedErr)
	}
	if _, seedErr := auth.SeedPool(ctx, credentialRepo, auth.PoolOperator, "operator", log.Logger); seedErr != nil {
		return fmt.Errorf("seeding operator pool: %w", seedErr)
	}

	// Auth service with in-memory sessions
	sessions := auth.NewMemorySessionStore()
	authService := auth.NewService(credentialRepo, sessions, cfg.Security.JWT.Secret, cfg.Security.JWT.GetSessionTTL())
	go authService.SweepLoop(ctx, sessionSweepInterval)

	// Signal controller for the LED indicator device
	signals := sig.New(cfg.Device, log)
	log.Info("signal controller initialised",
		"endpoint", cfg.Device.Endpoint,
		"call_timeout", cfg.Device.GetCallTimeout(),
		"hold", cfg.Device.GetHold(),
	)

	// Connect to InfluxDB (optional signal telemetry)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB, cfg.Kiosk.ID)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		signals.SetRecorder(influxClient)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Report intake
	intake := report.NewIntake(identityRepo, reportRepo, signals, log)

	// API server
	server, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Logger:     log,
		Identities: identityRepo,
		Reports:    reportRepo,
		Intake:     intake,
		Signals:    signals,
		Auth:       authService,
		DB:         db,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify infrastructure is healthy
	if err := healthCheck(ctx, db, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server (drains in-flight submissions)
	// 2. InfluxDB (if enabled)
	// 3. Database

	log.Info("Foundline Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FOUNDLINE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FOUNDLINE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, influxClient *influxdb.Client) error {
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.HealthCheck(checkCtx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(checkCtx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
