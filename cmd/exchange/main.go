// Command exchange runs the matching engine, its market-maker simulation,
// the raw TCP line-JSON client protocol, and an auxiliary HTTP dashboard
// (metrics + read-only websocket feeds): a two-thread model (network loop
// plus simulation thread), signal-driven shutdown, and an initial ticker
// table, wired up in the config-then-wire-then-serve shape, generalized to
// many symbols and a raw-TCP-plus-dashboard topology.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"limitless-exchange/config"
	"limitless-exchange/engine"
	"limitless-exchange/metrics"
	"limitless-exchange/protocol"
	"limitless-exchange/session"
	"limitless-exchange/sim"
	"limitless-exchange/transport"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "exchange: "+err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	metrics.Register()

	eng := engine.NewMatchingEngine()
	pool := sim.NewAgentPool()
	for _, sc := range cfg.Symbols {
		if _, err := eng.AddSymbol(sc.Ticker); err != nil {
			return fmt.Errorf("registering symbol %s: %w", sc.Ticker, err)
		}
		rng := sim.NewRNG(uint32(cfg.Seed) + symbolSalt(sc.Ticker))
		model := sim.NewGBMModel(sc.InitialPrice, sc.Drift, sc.Volatility, sim.SimulationStepYears, rng)
		pool.Add(sim.NewMarketMakerAgent(sc.Ticker, model, sc.SpreadBps, sc.LevelSpacing, sc.OrderSize, sc.Levels))
	}
	log.Info("registered symbols", zap.Int("count", len(cfg.Symbols)))

	registry := session.NewRegistry()
	bookHub := session.NewHub[engine.BookSnapshot]()
	tradeHub := session.NewHub[engine.ExecutionReport]()

	dispatcher := session.NewDispatcher(eng, log.Named("dispatch"))
	dispatcher.SetTradeSink(tradeHub)

	listener := transport.NewListener(cfg.ListenAddr, dispatcher, registry, cfg.MaxSessions, log.Named("transport"))
	dashboard := transport.NewDashboard(bookHub, tradeHub, log.Named("dashboard"))

	sink := &marketDataSink{registry: registry, bookHub: bookHub}
	driver := sim.NewDriver(eng, pool, sink, time.Duration(cfg.TickIntervalMS)*time.Millisecond, log.Named("sim"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpServer := &http.Server{Addr: cfg.DashboardAddr, Handler: dashboard.Routes()}

	errCh := make(chan error, 2)
	go func() {
		if err := listener.Serve(ctx); err != nil {
			errCh <- fmt.Errorf("tcp listener: %w", err)
		}
	}()
	go func() {
		log.Info("dashboard http server started", zap.String("addr", cfg.DashboardAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("dashboard server: %w", err)
		}
	}()
	go driver.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		cancel()
		return err
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)

	log.Info("shutdown complete")
	return nil
}

// marketDataSink fans a single book snapshot out to both the TCP session
// table, translated to the wire MARKET_DATA shape, and the auxiliary
// dashboard websocket feed.
type marketDataSink struct {
	registry *session.Registry
	bookHub  *session.Hub[engine.BookSnapshot]
}

func (s *marketDataSink) Broadcast(snap engine.BookSnapshot) {
	s.bookHub.Broadcast(snap)
	msg := protocol.NewMarketDataMessage(snap.Symbol, snap.BestBid, snap.BestAsk, snap.Last, snap.BidSize, snap.AskSize, snap.LastSize, snap.Timestamp)
	s.registry.Broadcast(msg)
}

// symbolSalt derives a small per-symbol offset from its ticker so every
// market maker doesn't draw from an identically-seeded RNG while still
// being fully reproducible from cfg.Seed.
func symbolSalt(ticker string) uint32 {
	var salt uint32
	for _, r := range ticker {
		salt = salt*31 + uint32(r)
	}
	return salt
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
