// Package metrics exposes the process's prometheus collectors: ambient
// observability into order flow and session counts, never risk or margin
// accounting.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// OrdersSubmitted counts submit calls per symbol and side.
	OrdersSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exchange_orders_submitted_total",
		Help: "Total orders submitted to the matching engine.",
	}, []string{"symbol", "side"})

	// TradesMatched counts fills per symbol.
	TradesMatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exchange_trades_matched_total",
		Help: "Total trades matched by the crossing loop.",
	}, []string{"symbol"})

	// ActiveSessions tracks currently connected TCP client sessions.
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "exchange_active_sessions",
		Help: "Number of currently connected client sessions.",
	})

	// BookDepth tracks the number of distinct price levels per symbol
	// and side, sampled on each simulation tick.
	BookDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "exchange_book_depth_levels",
		Help: "Number of distinct resting price levels, by symbol and side.",
	}, []string{"symbol", "side"})
)

// Register adds every collector to the default registry. Called once at
// startup in cmd/exchange; safe to call only once per process.
func Register() {
	prometheus.MustRegister(OrdersSubmitted, TradesMatched, ActiveSessions, BookDepth)
}
