package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/contracts"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/report"
)

// fetchContracts fetches each distinct address once and returns histories keyed by address.
func fetchContracts(ctx context.Context, source HistorySource, list []contracts.Contract, window model.DateWindow) (map[string]model.AddressHistory, error) {
	addresses := contracts.Addresses(list)
	histories, err := source.FetchMany(ctx, addresses, window)
	if err != nil {
		return nil, err
	}
	if len(histories) != len(addresses) {
		return nil, fmt.Errorf("fetched %d histories for %d addresses", len(histories), len(addresses))
	}
	out := make(map[string]model.AddressHistory, len(addresses))
	for i, address := range addresses {
		out[address] = histories[i]
	}
	return out, nil
}

// BuildFootprint fetches every contract restricted to window and adds it to a footprint
// summary.
func BuildFootprint(
	ctx context.Context,
	source HistorySource,
	estimator Estimator,
	list []contracts.Contract,
	window model.DateWindow,
	separate bool,
	logger *zap.Logger,
) (*report.FootprintSummary, error) {
	histories, err := fetchContracts(ctx, source, list, window)
	if err != nil {
		return nil, err
	}

	summary := report.NewFootprintSummary(separate)
	for _, c := range list {
		txs := histories[c.Address].Transactions
		kgco2, err := estimator.KgCO2(txs)
		if err != nil {
			return nil, fmt.Errorf("footprint of %s: %w", c.Key, err)
		}
		row := summary.Add(c.Name, c.Kind, c.Address, txs, kgco2)
		logger.Debug("contract footprint",
			zap.String("contract", c.Key),
			zap.Uint64("transactions", row.Transactions),
			zap.String("fees_eth", row.Fees.String()),
			zap.String("kgco2", kgco2.String()))
	}
	return summary, nil
}

// BuildActivity fetches every contract and accumulates per-name daily activity.
func BuildActivity(
	ctx context.Context,
	source HistorySource,
	list []contracts.Contract,
	logger *zap.Logger,
) (*report.Activity, error) {
	histories, err := fetchContracts(ctx, source, list, model.DateWindow{})
	if err != nil {
		return nil, err
	}

	activity := report.NewActivity()
	for _, c := range list {
		totals := activity.Add(c.Name, histories[c.Address].Transactions)
		logger.Debug("contract activity", append([]zap.Field{zap.String("contract", c.Key)}, totalsFields(totals)...)...)
	}
	logger.Info("activity across all contracts", totalsFields(activity.Total())...)
	return activity, nil
}

func totalsFields(t report.Totals) []zap.Field {
	return []zap.Field{
		zap.Uint64("transactions", t.Transactions),
		zap.String("gas_used", t.Gas.Dec()),
		zap.String("fees_eth", t.FeesETH().StringFixed(2)),
		zap.String("fees_wei", t.Fees.Dec()),
	}
}

// WriteActivity writes one CSV per activity kind under dir.
func WriteActivity(activity *report.Activity, dir, prefix string, logger *zap.Logger) error {
	for _, kind := range report.Kinds {
		path := report.TablePath(dir, prefix, kind)
		logger.Info("writing activity table", zap.String("path", path))
		if err := activity.Table(kind).WriteFile(path); err != nil {
			return fmt.Errorf("write %s table: %w", kind, err)
		}
	}
	return nil
}

// ComputePercentages reads the activity tables for prefix, divides them by the network
// baselines and writes the per-kind and compiled share tables. Rows on or after today are
// left out.
func ComputePercentages(dir, prefix string, baselines map[report.Kind]report.Baseline, today time.Time, logger *zap.Logger) error {
	inputs := make([]report.Input, 0, len(report.Kinds))
	for _, kind := range report.Kinds {
		baseline, ok := baselines[kind]
		if !ok {
			return fmt.Errorf("no baseline for %s", kind)
		}
		table, err := report.LoadTableFile(report.TablePath(dir, prefix, kind))
		if err != nil {
			return err
		}
		shares, err := report.Shares(table, baseline, today)
		if err != nil {
			return fmt.Errorf("%s shares: %w", kind, err)
		}
		path := report.SharesPath(dir, prefix, kind)
		logger.Info("writing share table", zap.String("path", path))
		if err := shares.WriteFile(path); err != nil {
			return err
		}
		inputs = append(inputs, report.Input{Kind: kind, Table: table, Baseline: baseline})
	}

	compiled, err := report.CompiledShares(inputs, today)
	if err != nil {
		return fmt.Errorf("compiled shares: %w", err)
	}
	path := report.SharesPath(dir, prefix, "")
	logger.Info("writing share table", zap.String("path", path))
	return compiled.WriteFile(path)
}
