package gekko

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourCandle(hour int, open, close float64) StratCandle {
	start := time.Date(2018, 1, 1, hour, 0, 0, 0, time.UTC)
	return StratCandle{
		Start: UnixTime{Time: start},
		Open:  open,
		High:  close * 1.01,
		Low:   open * 0.99,
		Close: close,
	}
}

func hourTrade(hour int, action string, amount, balance float64) TradeEvent {
	return TradeEvent{
		Action:  action,
		Amount:  amount,
		Balance: balance,
		Date:    UnixTime{Time: time.Date(2018, 1, 1, hour, 0, 0, 0, time.UTC)},
	}
}

func TestEquityCurveEmpty(t *testing.T) {
	result := &BacktestResult{}
	assert.Nil(t, result.EquityCurve())
}

func TestEquityCurveNoTrades(t *testing.T) {
	result := &BacktestResult{
		Report: Report{StartBalance: 100},
		StratCandles: []StratCandle{
			hourCandle(0, 100, 100),
			hourCandle(1, 100, 110),
			hourCandle(2, 110, 99),
		},
	}

	curve := result.EquityCurve()
	require.Len(t, curve, 3)

	for i, point := range curve {
		assert.Equal(t, float64(100), point.Balance, "point %d", i)
		assert.Equal(t, float64(1), point.StrategyReturn, "point %d", i)
		assert.Equal(t, float64(0), point.StrategyDrawdown, "point %d", i)
	}

	assert.InDelta(t, 1.0, curve[0].MarketReturn, 1e-9)
	assert.InDelta(t, 1.1, curve[1].MarketReturn, 1e-9)
	assert.InDelta(t, 0.99, curve[2].MarketReturn, 1e-9)

	// Market peaked at 110, the last candle sits 10% below it.
	assert.InDelta(t, 0.0, curve[1].MarketDrawdown, 1e-9)
	assert.InDelta(t, 0.99/1.1-1, curve[2].MarketDrawdown, 1e-9)
}

func TestEquityCurveBuyThenSell(t *testing.T) {
	result := &BacktestResult{
		Report: Report{StartBalance: 100},
		StratCandles: []StratCandle{
			hourCandle(0, 100, 100),
			hourCandle(1, 100, 110),
			hourCandle(2, 110, 120),
			hourCandle(3, 120, 90),
		},
		Trades: []TradeEvent{
			hourTrade(1, "buy", 1.0, 0),
			hourTrade(3, "sell", 0, 95),
		},
	}

	curve := result.EquityCurve()
	require.Len(t, curve, 4)

	// Before the buy the balance is the start balance, while holding it
	// is marked to market with the candle open, after the sell it is the
	// realized balance.
	assert.Equal(t, float64(100), curve[0].Balance)
	assert.Equal(t, float64(100), curve[1].Balance)
	assert.Equal(t, float64(110), curve[2].Balance)
	assert.Equal(t, float64(95), curve[3].Balance)

	assert.InDelta(t, 1.0, curve[1].StrategyReturn, 1e-9)
	assert.InDelta(t, 1.1, curve[2].StrategyReturn, 1e-9)
	assert.InDelta(t, 0.95, curve[3].StrategyReturn, 1e-9)

	assert.InDelta(t, 0.9/1.2-1, curve[3].MarketDrawdown, 1e-9)
	assert.InDelta(t, 0.95/1.1-1, curve[3].StrategyDrawdown, 1e-9)
}

func TestEquityCurveUnsortedTrades(t *testing.T) {
	sorted := &BacktestResult{
		Report: Report{StartBalance: 100},
		StratCandles: []StratCandle{
			hourCandle(0, 100, 100),
			hourCandle(1, 100, 105),
			hourCandle(2, 105, 95),
		},
		Trades: []TradeEvent{
			hourTrade(1, "buy", 1.0, 0),
			hourTrade(2, "sell", 0, 98),
		},
	}
	shuffled := &BacktestResult{
		Report:       sorted.Report,
		StratCandles: sorted.StratCandles,
		Trades:       []TradeEvent{sorted.Trades[1], sorted.Trades[0]},
	}

	assert.Equal(t, sorted.EquityCurve(), shuffled.EquityCurve())
}

func TestEquityCurveDefaultStartBalance(t *testing.T) {
	result := &BacktestResult{
		StratCandles: []StratCandle{hourCandle(0, 100, 100)},
	}

	curve := result.EquityCurve()
	require.Len(t, curve, 1)
	assert.Equal(t, float64(defaultCurrencyFunds), curve[0].Balance)
	assert.Equal(t, float64(1), curve[0].StrategyReturn)
}

func TestMonthlyProfits(t *testing.T) {
	point := func(year int, month time.Month, day int, close, balance float64) EquityPoint {
		return EquityPoint{
			Time:    time.Date(year, month, day, 12, 0, 0, 0, time.UTC),
			Close:   close,
			Balance: balance,
		}
	}

	curve := []EquityPoint{
		point(2018, time.January, 1, 100, 100),
		point(2018, time.January, 20, 110, 105),
		point(2018, time.February, 1, 112, 104),
		point(2018, time.February, 25, 99, 110),
	}

	months := MonthlyProfits(curve)
	require.Len(t, months, 2)

	assert.Equal(t, time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC), months[0].Month)
	assert.InDelta(t, 0.10, months[0].MarketProfit, 1e-9)
	assert.InDelta(t, 0.05, months[0].StrategyProfit, 1e-9)

	assert.Equal(t, time.Date(2018, time.February, 1, 0, 0, 0, 0, time.UTC), months[1].Month)
	assert.InDelta(t, (99.0-112.0)/112.0, months[1].MarketProfit, 1e-9)
	assert.InDelta(t, (110.0-104.0)/104.0, months[1].StrategyProfit, 1e-9)
}

func TestMonthlyProfitsSinglePointMonth(t *testing.T) {
	curve := []EquityPoint{{
		Time:    time.Date(2018, time.March, 15, 0, 0, 0, 0, time.UTC),
		Close:   100,
		Balance: 100,
	}}

	months := MonthlyProfits(curve)
	require.Len(t, months, 1)
	assert.Equal(t, float64(0), months[0].MarketProfit)
	assert.Equal(t, float64(0), months[0].StrategyProfit)
}

func TestMonthlyProfitsEmpty(t *testing.T) {
	assert.Empty(t, MonthlyProfits(nil))
}

func BenchmarkEquityCurve(b *testing.B) {
	candles := make([]StratCandle, 10000)
	trades := make([]TradeEvent, 0, 200)
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		ts := start.Add(time.Duration(i) * time.Minute)
		price := 100 + float64(i%50)
		candles[i] = StratCandle{
			Start: UnixTime{Time: ts},
			Open:  price,
			Close: price + 1,
		}
		if i%100 == 0 {
			action := "buy"
			if (i/100)%2 == 1 {
				action = "sell"
			}
			trades = append(trades, TradeEvent{
				Action:  action,
				Amount:  1,
				Balance: 100,
				Date:    UnixTime{Time: ts},
			})
		}
	}
	result := &BacktestResult{
		Report:       Report{StartBalance: 100},
		StratCandles: candles,
		Trades:       trades,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result.EquityCurve()
	}
}
