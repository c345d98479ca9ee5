package gekko

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Candle is one engine candle. VWP is the volume-weighted average price
// over the candle interval.
type Candle struct {
	Start  UnixTime `json:"start"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  float64  `json:"close"`
	VWP    float64  `json:"vwp"`
	Volume float64  `json:"volume"`
	Trades int      `json:"trades"`
}

// CandleRequest identifies a candle series on the engine. CandleSize is
// the candle interval in minutes. Zero From or To ends are resolved from
// the engine's scanned dataranges before pulling.
type CandleRequest struct {
	Exchange   string
	Asset      string
	Currency   string
	CandleSize int
	From       time.Time
	To         time.Time
}

func (r CandleRequest) validate() error {
	if r.Exchange == "" || r.Asset == "" || r.Currency == "" {
		return fmt.Errorf("candle request needs exchange, asset and currency, got %s/%s@%s", r.Asset, r.Currency, r.Exchange)
	}
	if r.CandleSize < 1 {
		return fmt.Errorf("candle size must be at least one minute, got %d", r.CandleSize)
	}
	return nil
}

type candleQuery struct {
	Watch      watch     `json:"watch"`
	DateRange  DateRange `json:"daterange"`
	CandleSize int       `json:"candleSize"`
}

type watch struct {
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Asset    string `json:"asset"`
}

// PullCandles fetches the candle series described by req from the engine.
// Candles come back oldest first.
func (c *Client) PullCandles(ctx context.Context, req CandleRequest) ([]Candle, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	daterange, err := c.ResolveDaterange(ctx, req)
	if err != nil {
		return nil, err
	}

	query := candleQuery{
		Watch:      watch{Exchange: req.Exchange, Currency: req.Currency, Asset: req.Asset},
		DateRange:  daterange,
		CandleSize: req.CandleSize,
	}
	var candles []Candle
	if err := c.Post(ctx, "getCandles", query, &candles); err != nil {
		return nil, err
	}
	return candles, nil
}

var candleCSVHeader = []string{"start", "open", "high", "low", "close", "vwp", "volume", "trades"}

// WriteCandlesCSV writes candles as CSV with a header row. Start times
// are epoch seconds.
func WriteCandlesCSV(w io.Writer, candles []Candle) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(candleCSVHeader); err != nil {
		return fmt.Errorf("write candle csv header: %w", err)
	}
	for _, candle := range candles {
		record := []string{
			strconv.FormatInt(candle.Start.Unix(), 10),
			formatFloat(candle.Open),
			formatFloat(candle.High),
			formatFloat(candle.Low),
			formatFloat(candle.Close),
			formatFloat(candle.VWP),
			formatFloat(candle.Volume),
			strconv.Itoa(candle.Trades),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write candle csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCandlesCSV reads a candle table written by WriteCandlesCSV.
func ReadCandlesCSV(r io.Reader) ([]Candle, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read candle csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	candles := make([]Candle, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(candleCSVHeader) {
			return nil, fmt.Errorf("candle csv row %d has %d fields, expected %d", i+1, len(record), len(candleCSVHeader))
		}
		values := make([]float64, len(record))
		for j, field := range record {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("candle csv row %d field %s: %w", i+1, candleCSVHeader[j], err)
			}
			values[j] = value
		}
		candles = append(candles, Candle{
			Start:  UnixTime{time.Unix(int64(values[0]), 0).UTC()},
			Open:   values[1],
			High:   values[2],
			Low:    values[3],
			Close:  values[4],
			VWP:    values[5],
			Volume: values[6],
			Trades: int(values[7]),
		})
	}
	return candles, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
