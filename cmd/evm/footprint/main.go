package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/app"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/contracts"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/emissions"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

type config struct {
	app.HistoryOptions `group:"History Options"`

	Separate  bool   `long:"separate" description:"Split results by contract"`
	StartDate string `long:"start-date" description:"YYYY-MM-DD start date for transactions"`
	EndDate   string `long:"end-date" description:"YYYY-MM-DD end date for transactions"`
	TSV       bool   `long:"tsv" description:"Output TSV instead of JSON"`
	Intensity string `long:"intensity" env:"FOOTPRINT_INTENSITY" description:"CSV of daily kgCO2 per gas (Date,KgCO2PerGas)" required:"true"`

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
		logger.Fatal("footprint failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	window, err := model.ParseDateWindow(cfg.StartDate, cfg.EndDate)
	if err != nil {
		return err
	}
	list, err := contracts.LoadFiles(cfg.Args.Contracts...)
	if err != nil {
		return err
	}
	series, err := emissions.LoadIntensityFile(cfg.Intensity)
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

	summary, err := app.BuildFootprint(ctx, history, emissions.NewEstimator(series), list, window, cfg.Separate, logger)
	if err != nil {
		return err
	}
	if cfg.TSV {
		return summary.WriteTSV(os.Stdout)
	}
	return summary.WriteJSON(os.Stdout)
}
