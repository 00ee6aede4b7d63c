package session

import (
	"strings"

	"limitless-exchange/engine"
	"limitless-exchange/metrics"
	"limitless-exchange/protocol"

	"go.uber.org/zap"
)

// orderRouter is the slice of MatchingEngine the dispatcher needs.
type orderRouter interface {
	Submit(symbol string, side engine.Side, typ engine.OrderType, price float64, qty uint32) (engine.MatchResult, error)
	Cancel(symbol string, orderID uint64) (bool, error)
}

// TradeSink receives a copy of every execution report produced by a
// submission, independent of which session originated it — the auxiliary
// dashboard trade feed (transport.Dashboard) is wired this way.
type TradeSink interface {
	Broadcast(report engine.ExecutionReport)
}

// Dispatcher turns decoded inbound messages into matching-engine calls and
// routes the results back to the originating session.
type Dispatcher struct {
	engine    orderRouter
	log       *zap.Logger
	tradeSink TradeSink
}

// NewDispatcher creates a dispatcher routing submissions and cancels to
// eng.
func NewDispatcher(eng orderRouter, log *zap.Logger) *Dispatcher {
	return &Dispatcher{engine: eng, log: log}
}

// SetTradeSink registers sink to receive every execution report produced
// by ORDER_NEW submissions, in addition to the originating session. Nil by
// default (no broadcast).
func (d *Dispatcher) SetTradeSink(sink TradeSink) {
	d.tradeSink = sink
}

// Handle decodes line and dispatches it against the engine, sending any
// response on sess. A decode failure produces an ERROR reply rather than
// dropping the connection.
func (d *Dispatcher) Handle(sess *Session, line []byte) {
	msg, err := protocol.Decode(line)
	if err != nil {
		d.log.Debug("malformed inbound message", zap.String("session", sess.ID.String()), zap.Error(err))
		sess.Send(protocol.NewErrorMessage("malformed message"))
		return
	}

	switch msg.Type {
	case protocol.MsgOrderNew:
		d.handleOrderNew(sess, msg.OrderNew)
	case protocol.MsgOrderCancel:
		d.handleOrderCancel(sess, msg.OrderCancel)
	case protocol.MsgHeartbeat:
		// No response required; the connection itself is the liveness
		// signal, silently accepted.
	default:
		// Other message types are ignored at this layer.
	}
}

func (d *Dispatcher) handleOrderNew(sess *Session, req *protocol.OrderNewRequest) {
	side, ok := parseSide(req.Side)
	if !ok {
		sess.Send(protocol.NewErrorMessage("unknown side"))
		return
	}
	typ, ok := parseOrderType(req.OrderType)
	if !ok {
		sess.Send(protocol.NewErrorMessage("unknown order type"))
		return
	}
	if req.Quantity <= 0 {
		sess.Send(protocol.NewErrorMessage("quantity must be positive"))
		return
	}

	metrics.OrdersSubmitted.WithLabelValues(req.Ticker, strings.ToUpper(req.Side)).Inc()

	reports, err := d.engine.Submit(req.Ticker, side, typ, req.Price, uint32(req.Quantity))
	if err != nil {
		sess.Send(protocol.NewErrorMessage(err.Error()))
		return
	}

	for _, r := range reports {
		sess.Send(protocol.NewExecutionReportMessage(r.OrderID, r.CounterpartyID, r.Price, r.Quantity, r.Status.String(), r.Timestamp))
		if d.tradeSink != nil {
			d.tradeSink.Broadcast(r)
		}
	}
	// Each fill produces two reports (aggressor + resting); count trades,
	// not reports.
	if len(reports) > 0 {
		metrics.TradesMatched.WithLabelValues(req.Ticker).Add(float64(len(reports)) / 2)
	}
}

func (d *Dispatcher) handleOrderCancel(sess *Session, req *protocol.OrderCancelRequest) {
	ok, err := d.engine.Cancel(req.Ticker, req.OrderID)
	if err != nil {
		sess.Send(protocol.NewErrorMessage(err.Error()))
		return
	}
	if !ok {
		sess.Send(protocol.NewErrorMessage("Order not found"))
	}
}

func parseSide(value string) (engine.Side, bool) {
	switch strings.ToUpper(value) {
	case "BUY":
		return engine.Buy, true
	case "SELL":
		return engine.Sell, true
	default:
		return 0, false
	}
}

func parseOrderType(value string) (engine.OrderType, bool) {
	switch strings.ToUpper(value) {
	case "MARKET":
		return engine.Market, true
	case "LIMIT":
		return engine.Limit, true
	default:
		return 0, false
	}
}
