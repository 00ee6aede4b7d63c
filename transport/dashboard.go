package transport

import (
	"net/http"

	"limitless-exchange/engine"
	"limitless-exchange/session"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dashboard exposes a read-only monitoring surface over HTTP: a
// prometheus /metrics endpoint and two websocket feeds (market data,
// trades). This is auxiliary to the normative newline-JSON-over-raw-TCP
// client protocol — no trading operation is reachable here, only passive
// observation — so it is free to use the gorilla/websocket stack the same
// way a book/trade streaming handler would, generalized from one fixed
// symbol to every book the engine carries.
type Dashboard struct {
	bookHub  *session.Hub[engine.BookSnapshot]
	tradeHub *session.Hub[engine.ExecutionReport]
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewDashboard creates a dashboard relaying bookHub and tradeHub to
// websocket subscribers.
func NewDashboard(bookHub *session.Hub[engine.BookSnapshot], tradeHub *session.Hub[engine.ExecutionReport], log *zap.Logger) *Dashboard {
	return &Dashboard{
		bookHub:  bookHub,
		tradeHub: tradeHub,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		log:      log,
	}
}

// Routes returns the dashboard's HTTP handler.
func (d *Dashboard) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/market-data", d.handleMarketDataStream)
	mux.HandleFunc("/ws/trades", d.handleTradeStream)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (d *Dashboard) handleMarketDataStream(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := d.bookHub.Subscribe(32)
	defer d.bookHub.Unsubscribe(sub)

	for snap := range sub.Chan() {
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}
}

func (d *Dashboard) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := d.tradeHub.Subscribe(32)
	defer d.tradeHub.Unsubscribe(sub)

	for report := range sub.Chan() {
		if err := conn.WriteJSON(report); err != nil {
			return
		}
	}
}
