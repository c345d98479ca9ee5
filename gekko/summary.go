package gekko

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

const tableTimeLayout = "2006-01-02 15:04"

// Summary writes the performance report as a two-column table.
func (r Report) Summary(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	table.Append([]string{"Start Time", r.StartTime})
	table.Append([]string{"End Time", r.EndTime})
	table.Append([]string{"Timespan", r.Timespan})
	table.Append([]string{"Start Price", formatFloat(r.StartPrice)})
	table.Append([]string{"End Price", formatFloat(r.EndPrice)})
	table.Append([]string{"Market", percent(r.Market)})
	table.Append([]string{"Start Balance", formatFloat(r.StartBalance)})
	table.Append([]string{"Balance", formatFloat(r.Balance)})
	table.Append([]string{"Profit", formatFloat(r.Profit)})
	table.Append([]string{"Relative Profit", percent(r.RelativeProfit)})
	table.Append([]string{"Yearly Profit", formatFloat(r.YearlyProfit)})
	table.Append([]string{"Relative Yearly Profit", percent(r.RelativeYearlyProfit)})
	table.Append([]string{"Trades", strconv.Itoa(r.Trades)})
	table.Append([]string{"Exposure", formatFloat(r.Exposure)})
	table.Append([]string{"Sharpe", formatFloat(r.Sharpe)})
	table.Append([]string{"Downside", formatFloat(r.Downside)})
	table.Append([]string{"Alpha", formatFloat(r.Alpha)})

	table.Render()
}

// RenderMonthly writes per-month market and strategy returns as a table.
func RenderMonthly(w io.Writer, months []MonthlyProfit) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Month", "Market", "Strategy"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, month := range months {
		table.Append([]string{
			month.Month.Format("2006-01"),
			percent(month.MarketProfit * 100),
			percent(month.StrategyProfit * 100),
		})
	}

	table.Render()
}

// RenderCandles writes a candle series as a table.
func RenderCandles(w io.Writer, candles []Candle) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Start", "Open", "High", "Low", "Close", "VWP", "Volume", "Trades"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, candle := range candles {
		table.Append([]string{
			candle.Start.Format(tableTimeLayout),
			formatFloat(candle.Open),
			formatFloat(candle.High),
			formatFloat(candle.Low),
			formatFloat(candle.Close),
			formatFloat(candle.VWP),
			formatFloat(candle.Volume),
			strconv.Itoa(candle.Trades),
		})
	}

	table.Render()
}

// RenderDataranges writes the scanned candle ranges as a table.
func RenderDataranges(w io.Writer, ranges []DataRange) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Market", "From", "To"})

	for _, r := range ranges {
		table.Append([]string{
			r.Market(),
			r.From.UTC().Format(tableTimeLayout),
			r.To.UTC().Format(tableTimeLayout),
		})
	}

	table.Render()
}

func percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}
