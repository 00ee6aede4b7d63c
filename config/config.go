// Package config loads process configuration from flags, environment
// variables, and built-in defaults, in that precedence order, using a
// spf13/viper store bound to spf13/pflag flags, and carries the initial
// symbol table and per-symbol market-maker parameters the process wires
// up at startup.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// SymbolConfig is one entry of the initial ticker table: its starting
// price and the market-maker parameters that drive its simulated
// liquidity.
type SymbolConfig struct {
	Ticker        string
	InitialPrice  float64
	Drift         float64 // annualized μ
	Volatility    float64 // annualized σ
	SpreadBps     float64
	LevelSpacing  float64
	OrderSize     uint32
	Levels        int
}

// defaultSymbols is the startup table: AAPL/MSFT/GOOGL/AMZN/TSLA, one
// market-maker agent each with μ=0.05, σ=0.20, spread=20bps, size=100,
// levels=5, level spacing defaulted to 5bps.
var defaultSymbols = []SymbolConfig{
	{Ticker: "AAPL", InitialPrice: 150, Drift: 0.05, Volatility: 0.20, SpreadBps: 20, LevelSpacing: 5, OrderSize: 100, Levels: 5},
	{Ticker: "MSFT", InitialPrice: 380, Drift: 0.05, Volatility: 0.20, SpreadBps: 20, LevelSpacing: 5, OrderSize: 100, Levels: 5},
	{Ticker: "GOOGL", InitialPrice: 140, Drift: 0.05, Volatility: 0.20, SpreadBps: 20, LevelSpacing: 5, OrderSize: 100, Levels: 5},
	{Ticker: "AMZN", InitialPrice: 180, Drift: 0.05, Volatility: 0.20, SpreadBps: 20, LevelSpacing: 5, OrderSize: 100, Levels: 5},
	{Ticker: "TSLA", InitialPrice: 250, Drift: 0.05, Volatility: 0.20, SpreadBps: 20, LevelSpacing: 5, OrderSize: 100, Levels: 5},
}

// Config is the process's complete startup configuration.
type Config struct {
	ListenAddr     string // TCP address for the line-JSON client protocol
	DashboardAddr  string // HTTP address for the metrics/websocket dashboard
	MaxSessions    int64  // connection count at which new clients are rejected
	TickIntervalMS int64  // simulation driver period, default 100ms
	Seed           int64  // GBM RNG seed, for reproducible market-maker trajectories
	Verbose        bool   // development zap encoder vs production JSON
	Symbols        []SymbolConfig
}

const (
	defaultListenAddr    = ":8080"
	defaultDashboardAddr = ":9090"
	defaultMaxSessions   = 32 // matches a reference implementation's fixed MAX_CLIENTS
	defaultTickMS        = 100
	defaultSeed          = 42
)

// FlagSet builds the pflag set Load parses and binds to. On --help, Parse
// prints the usage text and Load returns pflag.ErrHelp, which main treats
// as a clean exit.
func FlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("exchange", pflag.ContinueOnError)
	fs.Int64("port", 8080, "TCP port for the newline-JSON client protocol")
	fs.String("dashboard-addr", defaultDashboardAddr, "HTTP address for the metrics/websocket dashboard")
	fs.Int64("max-sessions", defaultMaxSessions, "maximum concurrent client connections")
	fs.Int64("tick-ms", defaultTickMS, "simulation tick interval in milliseconds")
	fs.Int64("seed", defaultSeed, "seed for the market-maker GBM random source")
	fs.Bool("verbose", false, "enable development-mode (human-readable) logging")
	return fs
}

// Load parses args, then resolves each setting from flags, then environment
// variables (EXCHANGE_ prefix), then built-in defaults (flag > env > default, SPEC_FULL.md
// §2 "Configuration"). args is normally os.Args[1:].
func Load(args []string) (*Config, error) {
	fs := FlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("exchange")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	port := v.GetInt64("port")
	cfg := &Config{
		ListenAddr:     fmt.Sprintf(":%d", port),
		DashboardAddr:  v.GetString("dashboard-addr"),
		MaxSessions:    v.GetInt64("max-sessions"),
		TickIntervalMS: v.GetInt64("tick-ms"),
		Seed:           v.GetInt64("seed"),
		Verbose:        v.GetBool("verbose"),
		Symbols:        defaultSymbols,
	}
	return cfg, nil
}
