package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/app"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/report"
)

type config struct {
	OutputDir   string `long:"output-dir" env:"FOOTPRINT_OUTPUT_DIR" description:"Directory holding activity tables" default:"output"`
	TxCountPath string `long:"tx-count-chart" env:"FOOTPRINT_TX_COUNT_CHART" description:"Explorer daily transactions chart CSV" required:"true"`
	GasPath     string `long:"gas-chart" env:"FOOTPRINT_GAS_CHART" description:"Explorer daily gas used chart CSV" required:"true"`
	FeesPath    string `long:"fees-chart" env:"FOOTPRINT_FEES_CHART" description:"Explorer daily network fees chart CSV, in ETH" required:"true"`
	JSONLogs    bool   `long:"json-logs" env:"FOOTPRINT_JSON_LOGS" description:"Emit production JSON logs"`

	Args struct {
		Prefix string `positional-arg-name:"prefix" description:"Input and output file prefix"`
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

	logger, err := app.NewLogger(cfg.JSONLogs, false)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("percentages failed", zap.Error(err))
	}
}

func run(cfg config, logger *zap.Logger) error {
	baselines := make(map[report.Kind]report.Baseline, len(report.Kinds))
	for kind, path := range map[report.Kind]string{
		report.KindTxCount: cfg.TxCountPath,
		report.KindGas:     cfg.GasPath,
		report.KindFees:    cfg.FeesPath,
	} {
		b, err := report.LoadBaselineFile(path)
		if err != nil {
			return err
		}
		baselines[kind] = b
	}
	return app.ComputePercentages(cfg.OutputDir, cfg.Args.Prefix, baselines, time.Now(), logger)
}
