package gekko

import (
	"context"
	"fmt"
	"time"
)

// DataRange is one contiguous candle range the engine has scanned for a
// market.
type DataRange struct {
	Exchange string
	Asset    string
	Currency string
	From     time.Time
	To       time.Time
}

// Market returns the range's market as asset/currency@exchange.
func (r DataRange) Market() string {
	return fmt.Sprintf("%s/%s@%s", r.Asset, r.Currency, r.Exchange)
}

type scanResponse struct {
	Datasets []struct {
		Exchange string `json:"exchange"`
		Currency string `json:"currency"`
		Asset    string `json:"asset"`
		Ranges   []struct {
			From UnixTime `json:"from"`
			To   UnixTime `json:"to"`
		} `json:"ranges"`
	} `json:"datasets"`
}

// PullDataranges asks the engine to scan its local history database and
// returns every candle range it found, flattened across markets.
func (c *Client) PullDataranges(ctx context.Context) ([]DataRange, error) {
	var response scanResponse
	if err := c.Post(ctx, "scansets", nil, &response); err != nil {
		return nil, err
	}

	var ranges []DataRange
	for _, dataset := range response.Datasets {
		for _, r := range dataset.Ranges {
			ranges = append(ranges, DataRange{
				Exchange: dataset.Exchange,
				Asset:    dataset.Asset,
				Currency: dataset.Currency,
				From:     r.From.Time,
				To:       r.To.Time,
			})
		}
	}
	return ranges, nil
}

// ResolveDaterange completes the request's date range. Ends that are set
// are kept, zero ends are imputed from the first scanned range matching
// the request's market.
func (c *Client) ResolveDaterange(ctx context.Context, req CandleRequest) (DateRange, error) {
	if !req.From.IsZero() && !req.To.IsZero() {
		return DateRange{From: req.From, To: req.To}, nil
	}

	ranges, err := c.PullDataranges(ctx)
	if err != nil {
		return DateRange{}, err
	}

	for _, r := range ranges {
		if r.Exchange != req.Exchange || r.Asset != req.Asset || r.Currency != req.Currency {
			continue
		}
		resolved := DateRange{From: req.From, To: req.To}
		if resolved.From.IsZero() {
			resolved.From = r.From
		}
		if resolved.To.IsZero() {
			resolved.To = r.To
		}
		return resolved, nil
	}
	return DateRange{}, fmt.Errorf("no data ranges match %s/%s@%s", req.Asset, req.Currency, req.Exchange)
}
