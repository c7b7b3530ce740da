package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"Mansoor88-6/nagster-console/internal/auth"
	"Mansoor88-6/nagster-console/internal/cli"
	"Mansoor88-6/nagster-console/internal/client"
	"Mansoor88-6/nagster-console/internal/config"
	"Mansoor88-6/nagster-console/internal/database"
	"Mansoor88-6/nagster-console/internal/logger"
	"Mansoor88-6/nagster-console/internal/obs"
	"Mansoor88-6/nagster-console/internal/platform"
	"Mansoor88-6/nagster-console/internal/storage"
)

const defaultConfigPath = "config/local.yaml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := preparseConfigPath(os.Args[1:])

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting nagster console",
		zap.String("env", cfg.Env),
		zap.String("config_path", configPath),
		zap.String("backend_url", cfg.Backend.BaseURL),
	)

	db, err := database.New(cfg.StoragePath, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *obs.Metrics
	if cfg.Metrics.Addr != "" {
		metrics = obs.NewMetrics()
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, log.Logger); err != nil {
				log.Error("Metrics server error", zap.Error(err))
			}
		}()
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.Backend.RateLimit), cfg.Backend.Burst)
	api := client.NewAPIClient(cfg.Backend.BaseURL, cfg.Backend.TimeoutDuration(), limiter, metrics, log.Logger)

	platformInstance, err := platform.NewPlatform()
	if err != nil {
		log.Warn("Browser integration unavailable", zap.Error(err))
	}

	app := &cli.App{
		Config:   cfg,
		Logger:   log.Logger,
		API:      api,
		Session:  auth.NewStore(api, storage.NewSQLStore(db.DB), log.Logger),
		Platform: platformInstance,
		IsInteractive: func() bool {
			return isTerminal(os.Stdin) && isTerminal(os.Stdout)
		},
	}

	root := cli.NewRootCmd(app)
	return root.ExecuteContext(ctx)
}

// preparseConfigPath reads --config before cobra runs, since the config
// decides how the command tree is wired.
func preparseConfigPath(args []string) string {
	fs := pflag.NewFlagSet("nagster", pflag.ContinueOnError)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	path := fs.StringP("config", "c", defaultConfigPath, "")
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)
	return *path
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
