package gekko

import (
	"context"
	"fmt"
	"time"
)

// Paper trader and analyzer defaults matching the engine's sample
// configuration.
const (
	defaultFeeMaker       = 0.25
	defaultFeeTaker       = 0.25
	defaultFeeUsing       = "maker"
	defaultSlippage       = 0.05
	defaultAssetBalance   = 1
	defaultCurrencyFunds  = 100
	defaultHistorySize    = 200
	defaultRiskFreeReturn = 2
)

// BacktestConfig describes one backtest run on the engine. From and To
// are resolved from the scanned dataranges when left zero.
type BacktestConfig struct {
	Exchange       string
	Asset          string
	Currency       string
	CandleSize     int
	Strategy       string
	StrategyParams map[string]any
	From           time.Time
	To             time.Time
}

func (cfg BacktestConfig) validate() error {
	if cfg.Strategy == "" {
		return fmt.Errorf("backtest config needs a strategy name")
	}
	return CandleRequest{
		Exchange:   cfg.Exchange,
		Asset:      cfg.Asset,
		Currency:   cfg.Currency,
		CandleSize: cfg.CandleSize,
	}.validate()
}

type paperTraderConfig struct {
	FeeMaker          float64        `json:"feeMaker"`
	FeeTaker          float64        `json:"feeTaker"`
	FeeUsing          string         `json:"feeUsing"`
	Slippage          float64        `json:"slippage"`
	SimulationBalance map[string]any `json:"simulationBalance"`
	ReportRoundtrips  bool           `json:"reportRoundtrips"`
	Enabled           bool           `json:"enabled"`
}

type tradingAdvisorConfig struct {
	Enabled     bool   `json:"enabled"`
	Method      string `json:"method"`
	CandleSize  int    `json:"candleSize"`
	HistorySize int    `json:"historySize"`
}

type resultExporterConfig struct {
	Enabled     bool               `json:"enabled"`
	WriteToDisk bool               `json:"writeToDisk"`
	Data        resultExporterData `json:"data"`
}

type resultExporterData struct {
	StratUpdates     bool     `json:"stratUpdates"`
	Roundtrips       bool     `json:"roundtrips"`
	StratCandles     bool     `json:"stratCandles"`
	StratCandleProps []string `json:"stratCandleProps"`
	Trades           bool     `json:"trades"`
}

type performanceAnalyzerConfig struct {
	RiskFreeReturn float64 `json:"riskFreeReturn"`
	Enabled        bool    `json:"enabled"`
}

// payload assembles the engine wire config. The strategy parameters sit
// under a top-level key named after the strategy, the rest is the static
// paper trading template.
func (cfg BacktestConfig) payload(daterange DateRange) map[string]any {
	params := cfg.StrategyParams
	if params == nil {
		params = map[string]any{}
	}

	return map[string]any{
		"watch": watch{Exchange: cfg.Exchange, Currency: cfg.Currency, Asset: cfg.Asset},
		"paperTrader": paperTraderConfig{
			FeeMaker: defaultFeeMaker,
			FeeTaker: defaultFeeTaker,
			FeeUsing: defaultFeeUsing,
			Slippage: defaultSlippage,
			SimulationBalance: map[string]any{
				"asset":    defaultAssetBalance,
				"currency": defaultCurrencyFunds,
			},
			ReportRoundtrips: true,
			Enabled:          true,
		},
		"tradingAdvisor": tradingAdvisorConfig{
			Enabled:     true,
			Method:      cfg.Strategy,
			CandleSize:  cfg.CandleSize,
			HistorySize: defaultHistorySize,
		},
		"backtest": map[string]any{
			"daterange": daterange,
		},
		"backtestResultExporter": resultExporterConfig{
			Enabled:     true,
			WriteToDisk: false,
			Data: resultExporterData{
				StratUpdates:     true,
				Roundtrips:       true,
				StratCandles:     true,
				StratCandleProps: []string{"open", "high", "low", "close"},
				Trades:           true,
			},
		},
		"performanceAnalyzer": performanceAnalyzerConfig{
			RiskFreeReturn: defaultRiskFreeReturn,
			Enabled:        true,
		},
		cfg.Strategy: params,
	}
}

// Report is the engine's performance report for one backtest.
type Report struct {
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	Timespan             string  `json:"timespan"`
	Market               float64 `json:"market"`
	StartBalance         float64 `json:"startBalance"`
	Balance              float64 `json:"balance"`
	Profit               float64 `json:"profit"`
	RelativeProfit       float64 `json:"relativeProfit"`
	YearlyProfit         float64 `json:"yearlyProfit"`
	RelativeYearlyProfit float64 `json:"relativeYearlyProfit"`
	StartPrice           float64 `json:"startPrice"`
	EndPrice             float64 `json:"endPrice"`
	Trades               int     `json:"trades"`
	Exposure             float64 `json:"exposure"`
	Sharpe               float64 `json:"sharpe"`
	Downside             float64 `json:"downside"`
	Alpha                float64 `json:"alpha"`
}

// Roundtrip is one completed entry/exit pair of the paper trader.
type Roundtrip struct {
	ID           int      `json:"id"`
	EntryAt      UnixTime `json:"entryAt"`
	EntryPrice   float64  `json:"entryPrice"`
	EntryBalance float64  `json:"entryBalance"`
	ExitAt       UnixTime `json:"exitAt"`
	ExitPrice    float64  `json:"exitPrice"`
	ExitBalance  float64  `json:"exitBalance"`
	Duration     int64    `json:"duration"`
	PNL          float64  `json:"pnl"`
	Profit       float64  `json:"profit"`
}

// StratCandle is a backtest candle restricted to the exported props.
type StratCandle struct {
	Start UnixTime `json:"start"`
	Open  float64  `json:"open"`
	High  float64  `json:"high"`
	Low   float64  `json:"low"`
	Close float64  `json:"close"`
}

// StratUpdate is one indicator snapshot emitted by the strategy under
// test.
type StratUpdate struct {
	Date       UnixTime       `json:"date"`
	Indicators map[string]any `json:"indicators"`
}

// TradeEvent is one executed paper trade.
type TradeEvent struct {
	Action  string   `json:"action"`
	Price   float64  `json:"price"`
	Amount  float64  `json:"amount"`
	Balance float64  `json:"balance"`
	Date    UnixTime `json:"date"`
}

// BacktestResult is the engine's full backtest response.
type BacktestResult struct {
	Report       Report        `json:"performanceReport"`
	Roundtrips   []Roundtrip   `json:"roundtrips"`
	StratCandles []StratCandle `json:"stratCandles"`
	StratUpdates []StratUpdate `json:"stratUpdates"`
	Trades       []TradeEvent  `json:"trades"`
}

// Backtest runs the configured strategy on the engine's candle history
// and returns the full result set.
func (c *Client) Backtest(ctx context.Context, cfg BacktestConfig) (*BacktestResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	daterange, err := c.ResolveDaterange(ctx, CandleRequest{
		Exchange:   cfg.Exchange,
		Asset:      cfg.Asset,
		Currency:   cfg.Currency,
		CandleSize: cfg.CandleSize,
		From:       cfg.From,
		To:         cfg.To,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("running backtest",
		"strategy", cfg.Strategy,
		"market", fmt.Sprintf("%s/%s@%s", cfg.Asset, cfg.Currency, cfg.Exchange),
		"from", daterange.From,
		"to", daterange.To,
	)

	var result BacktestResult
	if err := c.Post(ctx, "backtest", cfg.payload(daterange), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
