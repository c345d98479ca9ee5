// Package enginemock is an in-process stand-in for a Gekko engine. It
// serves the engine's REST surface backed by generated candles, for
// tests and examples that should not depend on a running engine.
package enginemock

import (
	"math"
	"math/rand"
	"time"

	"github.com/mariushelf/gekkopy/gekko"
)

// GeneratorConfig holds configuration for the candle generator
type GeneratorConfig struct {
	BasePrice  float64
	Volatility float64
	BaseVolume float64
	CandleSize time.Duration
	Count      int
	Start      time.Time
	Seed       int64
}

// DefaultGeneratorConfig returns a sensible default configuration
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		BasePrice:  100.0,
		Volatility: 0.01, // 1% volatility
		BaseVolume: 50.0,
		CandleSize: time.Minute,
		Count:      24 * 60,
		Start:      time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:       42,
	}
}

// GenerateCandles produces a candle series from a seeded random walk.
// The same config always yields the same series.
func GenerateCandles(config GeneratorConfig) []gekko.Candle {
	rng := rand.New(rand.NewSource(config.Seed))
	price := config.BasePrice

	candles := make([]gekko.Candle, config.Count)
	for i := range candles {
		open := price

		// More realistic price variation using normal distribution
		close := open + rng.NormFloat64()*config.Volatility*open

		// Ensure price doesn't go negative
		if close <= 0 {
			close = open * 0.99
		}

		high := math.Max(open, close) * (1 + rng.Float64()*config.Volatility)
		low := math.Min(open, close) * (1 - rng.Float64()*config.Volatility)
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}
		volume := config.BaseVolume * (0.5 + rng.Float64())

		candles[i] = gekko.Candle{
			Start:  gekko.UnixTime{Time: config.Start.Add(time.Duration(i) * config.CandleSize)},
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			VWP:    (high + low + close) / 3,
			Volume: volume,
			Trades: 1 + rng.Intn(100),
		}

		price = close
	}
	return candles
}
