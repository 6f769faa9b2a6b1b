package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/app"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/contracts"
)

const prefixLayout = "2006-01-02-15-04-05"

type config struct {
	app.HistoryOptions `group:"History Options"`

	Prefix    string `long:"prefix" description:"Output file prefix (default: current date and time)"`
	OutputDir string `long:"output-dir" env:"FOOTPRINT_OUTPUT_DIR" description:"Directory for output tables" default:"output"`
	NoSave    bool   `long:"no-save" description:"Do not write output tables"`

	Args struct {
		Contracts []string `positional-arg-name:"contracts" description:"Contract JSON files" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	if err := app.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config{}
	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}
	if cfg.Prefix == "" {
		cfg.Prefix = time.Now().Format(prefixLayout)
	}

	logger, err := app.NewLogger(cfg.JSONLogs, cfg.Verbose)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("activity failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	list, err := contracts.LoadFiles(cfg.Args.Contracts...)
	if err != nil {
		return err
	}

	app.StartMetricsServer(ctx, cfg.MetricsAddr, logger)

	history, err := app.NewHistory(cfg.HistoryOptions, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := history.Close(); err != nil {
			logger.Error("failed to close history store", zap.Error(err))
		}
	}()

	activity, err := app.BuildActivity(ctx, history, list, logger)
	if err != nil {
		return err
	}
	if cfg.NoSave {
		return nil
	}
	return app.WriteActivity(activity, cfg.OutputDir, cfg.Prefix, logger)
}
