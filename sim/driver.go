package sim

import (
	"context"
	"time"

	"limitless-exchange/engine"
	"limitless-exchange/metrics"

	"go.uber.org/zap"
)

// SnapshotSink receives book snapshots for broadcast to subscribed sessions.
// Implemented by session.Hub; kept as a narrow interface here so sim never
// imports the session or transport packages.
type SnapshotSink interface {
	Broadcast(snapshot engine.BookSnapshot)
}

// bookLister is the slice of MatchingEngine the driver needs: the
// order-submission surface agents tick against, plus enough to enumerate
// books for snapshotting.
type bookLister interface {
	engineSubmitter
	Symbols() []string
	Book(symbol string) *engine.OrderBook
}

// Driver runs the simulation loop on its own goroutine: every Interval it
// ticks the agent pool once, then snapshots every book and hands each
// snapshot to sink. The two-thread shape (network loop plus simulation
// thread) follows a reference C implementation's main, generalized here to
// a context-driven goroutine lifecycle.
type Driver struct {
	engine   bookLister
	pool     *AgentPool
	sink     SnapshotSink
	interval time.Duration
	log      *zap.Logger
}

// NewDriver creates a driver that ticks pool against eng every interval,
// publishing snapshots to sink.
func NewDriver(eng bookLister, pool *AgentPool, sink SnapshotSink, interval time.Duration, log *zap.Logger) *Driver {
	return &Driver{engine: eng, pool: pool, sink: sink, interval: interval, log: log}
}

// Run blocks, ticking until ctx is cancelled. Intended to run on its own
// goroutine, separate from the connection-handling goroutines.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.Info("simulation driver started", zap.Duration("interval", d.interval))
	for {
		select {
		case <-ctx.Done():
			d.log.Info("simulation driver stopping")
			return
		case <-ticker.C:
			d.step()
		}
	}
}

func (d *Driver) step() {
	d.pool.TickAll(d.engine)

	for _, symbol := range d.engine.Symbols() {
		book := d.engine.Book(symbol)
		if book == nil {
			continue
		}
		d.sink.Broadcast(book.Snapshot())

		bidLevels, askLevels := book.Depth()
		metrics.BookDepth.WithLabelValues(symbol, "BUY").Set(float64(bidLevels))
		metrics.BookDepth.WithLabelValues(symbol, "SELL").Set(float64(askLevels))
	}
}
