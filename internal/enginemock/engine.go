package enginemock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"github.com/mariushelf/gekkopy/gekko"
)

const reportTimeLayout = "2006-01-02 15:04:05"

// Engine serves the REST surface of a Gekko engine for a single market,
// backed by a fixed candle series.
type Engine struct {
	exchange string
	asset    string
	currency string
	candles  []gekko.Candle
}

// NewEngine creates a fake engine holding the given one-minute candles
// for one market.
func NewEngine(exchange, asset, currency string, candles []gekko.Candle) *Engine {
	return &Engine{
		exchange: exchange,
		asset:    asset,
		currency: currency,
		candles:  candles,
	}
}

// Candles returns the engine's full candle series.
func (e *Engine) Candles() []gekko.Candle {
	return e.candles
}

// Router returns the engine's HTTP routes
func (e *Engine) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/scansets", e.handleScansets).Methods("POST")
	r.HandleFunc("/api/getCandles", e.handleGetCandles).Methods("POST")
	r.HandleFunc("/api/backtest", e.handleBacktest).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return r
}

type timeRange struct {
	From gekko.UnixTime `json:"from"`
	To   gekko.UnixTime `json:"to"`
}

type dataset struct {
	Exchange string      `json:"exchange"`
	Currency string      `json:"currency"`
	Asset    string      `json:"asset"`
	Ranges   []timeRange `json:"ranges"`
}

func (e *Engine) handleScansets(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Datasets []dataset `json:"datasets"`
	}{}

	if len(e.candles) > 0 {
		response.Datasets = []dataset{{
			Exchange: e.exchange,
			Currency: e.currency,
			Asset:    e.asset,
			Ranges: []timeRange{{
				From: e.candles[0].Start,
				To:   e.candles[len(e.candles)-1].Start,
			}},
		}}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

type candleQuery struct {
	Watch struct {
		Exchange string `json:"exchange"`
		Currency string `json:"currency"`
		Asset    string `json:"asset"`
	} `json:"watch"`
	DateRange  gekko.DateRange `json:"daterange"`
	CandleSize int             `json:"candleSize"`
}

func (e *Engine) handleGetCandles(w http.ResponseWriter, r *http.Request) {
	var query candleQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if query.Watch.Exchange != e.exchange || query.Watch.Asset != e.asset || query.Watch.Currency != e.currency {
		http.Error(w, "unknown market", http.StatusBadRequest)
		return
	}
	if query.CandleSize < 1 {
		query.CandleSize = 1
	}

	candles := aggregate(e.slice(query.DateRange), query.CandleSize)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(candles)
}

type backtestQuery struct {
	Watch struct {
		Exchange string `json:"exchange"`
		Currency string `json:"currency"`
		Asset    string `json:"asset"`
	} `json:"watch"`
	Backtest struct {
		DateRange gekko.DateRange `json:"daterange"`
	} `json:"backtest"`
	TradingAdvisor struct {
		Method     string `json:"method"`
		CandleSize int    `json:"candleSize"`
	} `json:"tradingAdvisor"`
	PaperTrader struct {
		SimulationBalance struct {
			Currency float64 `json:"currency"`
		} `json:"simulationBalance"`
	} `json:"paperTrader"`
}

// handleBacktest replies with the result of a buy-and-hold paper run over
// the requested range: one buy at the first candle, one sell at the last.
func (e *Engine) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var query backtestQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if query.TradingAdvisor.Method == "" {
		http.Error(w, "tradingAdvisor.method is required", http.StatusBadRequest)
		return
	}

	size := query.TradingAdvisor.CandleSize
	if size < 1 {
		size = 1
	}
	candles := aggregate(e.slice(query.Backtest.DateRange), size)
	if len(candles) == 0 {
		http.Error(w, "no candles in requested range", http.StatusBadRequest)
		return
	}

	startBalance := query.PaperTrader.SimulationBalance.Currency
	if startBalance == 0 {
		startBalance = 100
	}

	first := candles[0]
	last := candles[len(candles)-1]
	amount := startBalance / first.Close
	finalBalance := amount * last.Close

	result := gekko.BacktestResult{
		Report: gekko.Report{
			StartTime:      first.Start.Format(reportTimeLayout),
			EndTime:        last.Start.Format(reportTimeLayout),
			Timespan:       last.Start.Sub(first.Start.Time).String(),
			Market:         (last.Close - first.Close) / first.Close * 100,
			StartBalance:   startBalance,
			Balance:        finalBalance,
			Profit:         finalBalance - startBalance,
			RelativeProfit: (finalBalance - startBalance) / startBalance * 100,
			StartPrice:     first.Close,
			EndPrice:       last.Close,
			Trades:         2,
		},
		Roundtrips: []gekko.Roundtrip{{
			ID:           0,
			EntryAt:      first.Start,
			EntryPrice:   first.Close,
			EntryBalance: startBalance,
			ExitAt:       last.Start,
			ExitPrice:    last.Close,
			ExitBalance:  finalBalance,
			Duration:     last.Start.Unix() - first.Start.Unix(),
			PNL:          finalBalance - startBalance,
			Profit:       (finalBalance - startBalance) / startBalance * 100,
		}},
		Trades: []gekko.TradeEvent{
			{Action: "buy", Price: first.Close, Amount: amount, Balance: 0, Date: first.Start},
			{Action: "sell", Price: last.Close, Amount: 0, Balance: finalBalance, Date: last.Start},
		},
	}
	for _, candle := range candles {
		result.StratCandles = append(result.StratCandles, gekko.StratCandle{
			Start: candle.Start,
			Open:  candle.Open,
			High:  candle.High,
			Low:   candle.Low,
			Close: candle.Close,
		})
		result.StratUpdates = append(result.StratUpdates, gekko.StratUpdate{
			Date:       candle.Start,
			Indicators: map[string]any{"close": candle.Close},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// slice returns the candles whose start falls inside the range.
func (e *Engine) slice(daterange gekko.DateRange) []gekko.Candle {
	var out []gekko.Candle
	for _, candle := range e.candles {
		if candle.Start.Before(daterange.From) || candle.Start.After(daterange.To) {
			continue
		}
		out = append(out, candle)
	}
	return out
}

// aggregate buckets one-minute candles into candleSize-minute candles.
func aggregate(candles []gekko.Candle, candleSize int) []gekko.Candle {
	if candleSize <= 1 {
		return candles
	}

	interval := int64(candleSize) * int64(time.Minute/time.Second)
	buckets := make(map[int64]*gekko.Candle)
	volumes := make(map[int64]float64)

	for _, candle := range candles {
		// Round timestamp down to interval boundary
		bucketStart := (candle.Start.Unix() / interval) * interval

		bucket, exists := buckets[bucketStart]
		if !exists {
			opening := candle
			opening.Start = gekko.UnixTime{Time: time.Unix(bucketStart, 0).UTC()}
			buckets[bucketStart] = &opening
			volumes[bucketStart] = candle.Volume * candle.VWP
			continue
		}

		if candle.High > bucket.High {
			bucket.High = candle.High
		}
		if candle.Low < bucket.Low {
			bucket.Low = candle.Low
		}
		bucket.Close = candle.Close
		bucket.Volume += candle.Volume
		bucket.Trades += candle.Trades
		volumes[bucketStart] += candle.Volume * candle.VWP
	}

	out := make([]gekko.Candle, 0, len(buckets))
	for start, bucket := range buckets {
		if bucket.Volume > 0 {
			bucket.VWP = volumes[start] / bucket.Volume
		}
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start.Time)
	})
	return out
}

// ListenAndServe runs the fake engine on the given port.
func (e *Engine) ListenAndServe(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), e.Router())
}
