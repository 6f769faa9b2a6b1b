package emissions

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

// Estimator sums gas used weighted by the intensity of each transaction's day.
type Estimator struct {
	series *IntensitySeries
}

func NewEstimator(series *IntensitySeries) *Estimator {
	return &Estimator{series: series}
}

// KgCO2 returns the unrounded footprint of txs. Rounding is left to the caller.
func (e *Estimator) KgCO2(txs []model.Transaction) (decimal.Decimal, error) {
	gasByDay := make(map[time.Time]decimal.Decimal)
	var days []time.Time
	for _, tx := range txs {
		day := tx.Date()
		gas, ok := gasByDay[day]
		if !ok {
			days = append(days, day)
		}
		gasByDay[day] = gas.Add(decimal.NewFromUint64(tx.GasUsed))
	}

	total := decimal.Zero
	for _, day := range days {
		intensity, err := e.series.At(day)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("estimate footprint: %w", err)
		}
		total = total.Add(gasByDay[day].Mul(intensity))
	}
	return total, nil
}
