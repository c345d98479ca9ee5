package gekko

import (
	"math"
	"sort"
	"time"
)

// EquityPoint is one step of the joint market and strategy balance series
// derived from a backtest. Returns are relative to the first candle and
// the simulation start balance, drawdowns are relative to the running
// maximum and never positive.
type EquityPoint struct {
	Time             time.Time
	Close            float64
	Balance          float64
	MarketReturn     float64
	StrategyReturn   float64
	MarketDrawdown   float64
	StrategyDrawdown float64
}

// EquityCurve derives the per-candle balance series from the backtest's
// strat candles and trades. After a buy the balance is marked to market
// with the candle open, after a sell it is the realized balance, before
// the first trade it is the start balance.
func (r *BacktestResult) EquityCurve() []EquityPoint {
	if len(r.StratCandles) == 0 {
		return nil
	}

	startPrice := r.StratCandles[0].Close
	startBalance := r.Report.StartBalance
	if startBalance == 0 {
		startBalance = defaultCurrencyFunds
	}

	trades := make([]TradeEvent, len(r.Trades))
	copy(trades, r.Trades)
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Date.Before(trades[j].Date.Time)
	})

	var (
		next       int
		lastAction string
		lastAmount float64
		lastFunds  float64
	)
	marketMax := math.Inf(-1)
	strategyMax := math.Inf(-1)

	points := make([]EquityPoint, 0, len(r.StratCandles))
	for _, candle := range r.StratCandles {
		for next < len(trades) && !trades[next].Date.After(candle.Start.Time) {
			lastAction = trades[next].Action
			lastAmount = trades[next].Amount
			lastFunds = trades[next].Balance
			next++
		}

		balance := startBalance
		switch lastAction {
		case "buy":
			balance = lastAmount * candle.Open
		case "sell":
			balance = lastFunds
		}

		marketReturn := candle.Close / startPrice
		strategyReturn := balance / startBalance
		if marketReturn > marketMax {
			marketMax = marketReturn
		}
		if strategyReturn > strategyMax {
			strategyMax = strategyReturn
		}

		points = append(points, EquityPoint{
			Time:             candle.Start.Time,
			Close:            candle.Close,
			Balance:          balance,
			MarketReturn:     marketReturn,
			StrategyReturn:   strategyReturn,
			MarketDrawdown:   marketReturn/marketMax - 1,
			StrategyDrawdown: strategyReturn/strategyMax - 1,
		})
	}
	return points
}

// MonthlyProfit compares market and strategy returns within one calendar
// month.
type MonthlyProfit struct {
	Month          time.Time
	MarketProfit   float64
	StrategyProfit float64
}

// MonthlyProfits groups an equity curve by calendar month and reports the
// relative market and strategy change between the first and last point of
// each month.
func MonthlyProfits(curve []EquityPoint) []MonthlyProfit {
	var (
		months      []MonthlyProfit
		first, last EquityPoint
		open        bool
	)

	flush := func() {
		if !open {
			return
		}
		months = append(months, MonthlyProfit{
			Month:          time.Date(first.Time.Year(), first.Time.Month(), 1, 0, 0, 0, 0, time.UTC),
			MarketProfit:   (last.Close - first.Close) / first.Close,
			StrategyProfit: (last.Balance - first.Balance) / first.Balance,
		})
	}

	for _, point := range curve {
		if open && sameMonth(first.Time, point.Time) {
			last = point
			continue
		}
		flush()
		first, last, open = point, point, true
	}
	flush()
	return months
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
