// Command gekkopy serves trading strategies to a Gekko style engine and
// pulls candles, dataranges and backtest results from it.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v2"
	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/mariushelf/gekkopy/gekko"
	"github.com/mariushelf/gekkopy/internal/config"
	"github.com/mariushelf/gekkopy/serving"
	"github.com/mariushelf/gekkopy/strategies"
	"github.com/mariushelf/gekkopy/strategy"
)

const (
	dateTimeLayout = "2006-01-02T15:04:05"
	dateLayout     = "2006-01-02"
)

func main() {
	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived shutdown signal, stopping...")
		cancel()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "gekkopy",
		Usage:   "serve trading strategies and run backtests against a Gekko engine",
		Version: serving.ServiceVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a gekkopy.yaml config file",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			datarangesCommand(),
			candlesCommand(),
			backtestCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the bundled strategies over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "host to bind, overrides the config"},
			&cli.IntFlag{Name: "port", Usage: "port to bind, overrides the config"},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	host := cfg.Serving.Host
	if c.IsSet("host") {
		host = c.String("host")
	}
	port := cfg.Serving.Port
	if c.IsSet("port") {
		port = c.Int("port")
	}

	// Register the bundled strategies
	registry := strategy.NewRegistry()
	registry.MustRegister("dummy", strategies.Dummy{})
	registry.MustRegister("emacross", strategies.EMACross{})

	server := serving.NewStratServer(registry, newLogger(cfg))

	fmt.Printf("Strategy server starting on %s:%d\n", host, port)
	fmt.Printf("Endpoints:\n")
	fmt.Printf("  GET  /strats\n")
	fmt.Printf("  GET  /strats/:name/window_size\n")
	fmt.Printf("  GET  /strats/:name/protocol_version\n")
	fmt.Printf("  POST /strats/:name/advice\n")
	fmt.Printf("  GET  /health\n")
	fmt.Printf("Press Ctrl+C to shutdown\n")

	return server.StartServer(host, port)
}

func datarangesCommand() *cli.Command {
	return &cli.Command{
		Name:  "dataranges",
		Usage: "list the candle ranges the engine has data for",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			client := newEngineClient(cfg)
			ranges, err := client.PullDataranges(c.Context)
			if err != nil {
				return err
			}

			gekko.RenderDataranges(os.Stdout, ranges)
			return nil
		},
	}
}

func candlesCommand() *cli.Command {
	return &cli.Command{
		Name:  "candles",
		Usage: "pull a candle series from the engine",
		Flags: append(marketFlags(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write the candles to this CSV file instead of stdout"},
		),
		Action: runCandles,
	}
}

func runCandles(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	req, err := candleRequest(c, cfg)
	if err != nil {
		return err
	}

	client := newEngineClient(cfg)
	candles, err := client.PullCandles(c.Context, req)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		file, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer file.Close()
		if err := gekko.WriteCandlesCSV(file, candles); err != nil {
			return err
		}
		fmt.Printf("Wrote %d candles to %s\n", len(candles), out)
		return nil
	}

	gekko.RenderCandles(os.Stdout, candles)
	return nil
}

func backtestCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "run a backtest on the engine and summarize the result",
		Flags: append(marketFlags(),
			&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "engine strategy to run"},
			&cli.StringFlag{Name: "params", Usage: "strategy parameters as a JSON object"},
		),
		Action: runBacktest,
	}
}

func runBacktest(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	req, err := candleRequest(c, cfg)
	if err != nil {
		return err
	}

	btCfg := gekko.BacktestConfig{
		Exchange:       req.Exchange,
		Asset:          req.Asset,
		Currency:       req.Currency,
		CandleSize:     req.CandleSize,
		From:           req.From,
		To:             req.To,
		Strategy:       stringValue(c, "strategy", cfg.Backtest.Strategy),
		StrategyParams: cfg.Backtest.Params,
	}
	if raw := c.String("params"); raw != "" {
		params := map[string]any{}
		if err := sonic.Unmarshal([]byte(raw), &params); err != nil {
			return fmt.Errorf("parse strategy params: %w", err)
		}
		btCfg.StrategyParams = params
	}

	client := newEngineClient(cfg)
	result, err := client.Backtest(c.Context, btCfg)
	if err != nil {
		return err
	}

	result.Report.Summary(os.Stdout)

	curve := result.EquityCurve()
	if months := gekko.MonthlyProfits(curve); len(months) > 0 {
		fmt.Println()
		gekko.RenderMonthly(os.Stdout, months)
	}
	return nil
}

func marketFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "exchange", Aliases: []string{"e"}, Usage: "exchange name"},
		&cli.StringFlag{Name: "asset", Aliases: []string{"a"}, Usage: "asset symbol"},
		&cli.StringFlag{Name: "currency", Usage: "currency symbol"},
		&cli.StringFlag{Name: "candle-size", Usage: "candle size as minutes or a duration like 1h"},
		&cli.StringFlag{Name: "from", Usage: "range start, 2006-01-02 or 2006-01-02T15:04:05"},
		&cli.StringFlag{Name: "to", Usage: "range end, empty means the whole available range"},
	}
}

func candleRequest(c *cli.Context, cfg *config.Config) (gekko.CandleRequest, error) {
	candleSize, err := parseCandleSize(stringValue(c, "candle-size", cfg.Backtest.CandleSize))
	if err != nil {
		return gekko.CandleRequest{}, err
	}
	from, err := parseTimeFlag(stringValue(c, "from", cfg.Backtest.From))
	if err != nil {
		return gekko.CandleRequest{}, fmt.Errorf("parse from: %w", err)
	}
	to, err := parseTimeFlag(stringValue(c, "to", cfg.Backtest.To))
	if err != nil {
		return gekko.CandleRequest{}, fmt.Errorf("parse to: %w", err)
	}

	return gekko.CandleRequest{
		Exchange:   stringValue(c, "exchange", cfg.Backtest.Exchange),
		Asset:      stringValue(c, "asset", cfg.Backtest.Asset),
		Currency:   stringValue(c, "currency", cfg.Backtest.Currency),
		CandleSize: candleSize,
		From:       from,
		To:         to,
	}, nil
}

func stringValue(c *cli.Context, name, fallback string) string {
	if value := c.String(name); value != "" {
		return value
	}
	return fallback
}

// parseCandleSize accepts plain minutes like "60" or durations like
// "1h". Durations must be whole minutes.
func parseCandleSize(value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("candle size is required")
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return minutes, nil
	}

	duration, err := str2duration.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse candle size %q: %w", value, err)
	}
	if duration < time.Minute || duration%time.Minute != 0 {
		return 0, fmt.Errorf("candle size %q is not a whole number of minutes", value)
	}
	return int(duration / time.Minute), nil
}

func parseTimeFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(dateTimeLayout, value); err == nil {
		return ts, nil
	}
	return time.Parse(dateLayout, value)
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
}

func newEngineClient(cfg *config.Config) *gekko.Client {
	return gekko.NewClient(cfg.Engine.BaseURL,
		gekko.WithTimeout(cfg.Engine.Timeout),
		gekko.WithLogger(newLogger(cfg)),
	)
}
