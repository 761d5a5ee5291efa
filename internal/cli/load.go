package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/ecomload/internal/checksum"
	"github.com/vvka-141/ecomload/internal/config"
	"github.com/vvka-141/ecomload/internal/db"
	"github.com/vvka-141/ecomload/internal/files/reader"
	"github.com/vvka-141/ecomload/internal/logging"
	"github.com/vvka-141/ecomload/internal/metrics"
	"github.com/vvka-141/ecomload/internal/report"
	"github.com/vvka-141/ecomload/internal/schema"
	"github.com/vvka-141/ecomload/internal/services"
	"github.com/vvka-141/ecomload/pkg/ecomload"
)

type loadFlags struct {
	configFile  string
	dataDir     string
	database    string
	driver      string
	dsn         string
	atomic      bool
	metricsFile string
	timeout     time.Duration
}

func (f *loadFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.configFile, "config", "", "Project config file (default ./"+config.ConfigFileName+" if present)")
	fl.StringVar(&f.dataDir, "data-dir", ecomload.DefaultDataDir, "Directory or s3://bucket/prefix holding <table>.csv files")
	fl.StringVar(&f.database, "database", ecomload.DefaultDatabasePath, "SQLite store file")
	fl.StringVar(&f.driver, "driver", string(ecomload.DefaultDriver), "Backing store: sqlite or postgres")
	fl.StringVar(&f.dsn, "dsn", "", "PostgreSQL connection string (--driver postgres)")
	fl.BoolVar(&f.atomic, "atomic", false, "Run clear and reload in one transaction; a failure keeps the previous data")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file")
	fl.DurationVar(&f.timeout, "timeout", 0, "Abort the run after this duration (0 = no limit)")
}

// resolveConfig layers defaults, the project file, the environment and the
// flags the user actually set.
func resolveConfig(cmd *cobra.Command, f *loadFlags, getenv func(string) string) (ecomload.LoadConfig, error) {
	cfg := config.Defaults()

	project, err := loadProjectConfig(f.configFile)
	if err != nil {
		return cfg, err
	}
	if project != nil {
		if cfg, err = project.Apply(cfg); err != nil {
			return cfg, err
		}
	}

	if cfg, err = config.ApplyEnv(cfg, getenv); err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	if changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if changed("database") {
		cfg.DatabasePath = f.database
	}
	if changed("driver") {
		cfg.Driver = ecomload.Driver(f.driver)
	}
	if changed("dsn") {
		cfg.DSN = f.dsn
	}
	if changed("atomic") {
		cfg.Atomic = f.atomic
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, cfg.Validate()
}

// loadProjectConfig reads the explicit config file, or ./ecomload.yaml when
// none was given. A missing default file is not an error.
func loadProjectConfig(path string) (*config.ProjectConfig, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("config file %s not found: %w", path, ecomload.ErrInvalidConfig)
		}
		return cfg, err
	}
	cfg, err := config.Load(".")
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, nil
	}
	return cfg, err
}

func runLoad(cmd *cobra.Command, f *loadFlags) error {
	_ = godotenv.Load()

	cfg, err := resolveConfig(cmd, f, os.Getenv)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLoggerTo(cmd.ErrOrStderr(), cfg.Verbose)
	registry := schema.Default()
	loader := services.NewLoadService(
		db.NewOpener(registry),
		reader.NewOpener(registry, checksum.New()),
		registry,
		logger,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, loadErr := loader.Load(ctx, cfg)

	if err := report.New(cmd.OutOrStdout()).Write(summary); err != nil {
		logger.Error("%v", err)
	}

	if cfg.MetricsFile != "" {
		recorder := metrics.NewRecorder()
		recorder.Observe(registry.Order(), summary, loadErr)
		if err := recorder.WriteFile(cfg.MetricsFile); err != nil {
			logger.Error("%v", err)
		} else {
			logger.Verbose("Metrics written to %s", cfg.MetricsFile)
		}
	}

	if loadErr != nil {
		if errors.Is(loadErr, context.DeadlineExceeded) {
			return fmt.Errorf("run exceeded --timeout %s: %w", cfg.Timeout, loadErr)
		}
		return loadErr
	}
	logger.Verbose("Run %s finished in %s (%d rows)", summary.RunID, summary.Duration.Round(time.Millisecond), summary.Total())
	return nil
}
