// Package protocol implements the newline-terminated JSON wire format
// exchanged with clients: one message per line, UTF-8, both directions
// sharing a single TCP byte stream.
package protocol

import "time"

// MessageType is the value carried by every message's top-level "type"
// field.
type MessageType string

const (
	MsgOrderNew        MessageType = "ORDER_NEW"
	MsgOrderCancel     MessageType = "ORDER_CANCEL"
	MsgHeartbeat       MessageType = "HEARTBEAT"
	MsgMarketData      MessageType = "MARKET_DATA"
	MsgExecutionReport MessageType = "EXECUTION_REPORT"
	MsgError           MessageType = "ERROR"
)

// OrderNewRequest is the decoded payload of an inbound ORDER_NEW message.
// OrderType holds the *second* occurrence of the JSON "type" key — the
// first names the message ("ORDER_NEW"), the second the order
// ("MARKET"/"LIMIT"); see Decode.
type OrderNewRequest struct {
	Ticker    string
	Side      string
	OrderType string
	Price     float64
	Quantity  int64
}

// OrderCancelRequest is the decoded payload of an inbound ORDER_CANCEL
// message.
type OrderCancelRequest struct {
	Ticker  string
	OrderID uint64
}

// InboundMessage is the result of decoding one line of client input. Type
// names which of OrderNew/OrderCancel is populated; both are nil for
// HEARTBEAT and any other message type, which callers ignore.
type InboundMessage struct {
	Type        MessageType
	OrderNew    *OrderNewRequest
	OrderCancel *OrderCancelRequest
}

// MarketDataMessage is an outbound MARKET_DATA snapshot. OHLC/Volume are
// always zero: this system never populates them, and they are carried
// here only so wire-compatible clients see the same shape.
type MarketDataMessage struct {
	Type      MessageType `json:"type"`
	Ticker    string      `json:"ticker"`
	Bid       float64     `json:"bid"`
	Ask       float64     `json:"ask"`
	Last      float64     `json:"last"`
	BidSize   uint32      `json:"bid_size"`
	AskSize   uint32      `json:"ask_size"`
	LastSize  uint32      `json:"last_size"`
	Open      float64     `json:"open"`
	High      float64     `json:"high"`
	Low       float64     `json:"low"`
	Volume    float64     `json:"volume"`
	Timestamp int64       `json:"timestamp"`
}

// ExecutionReportMessage is an outbound EXECUTION_REPORT for a single fill.
type ExecutionReportMessage struct {
	Type      MessageType `json:"type"`
	OrderID   uint64      `json:"order_id"`
	MatchID   uint64      `json:"match_id"`
	Price     float64     `json:"price"`
	Quantity  uint32      `json:"quantity"`
	Status    string      `json:"status"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorMessage is an outbound ERROR, sent on the originating session
// without closing the connection.
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// NewMarketDataMessage builds a MARKET_DATA frame from a book snapshot's
// fields, stamping it with ts.
func NewMarketDataMessage(ticker string, bid, ask, last float64, bidSize, askSize, lastSize uint32, ts time.Time) MarketDataMessage {
	return MarketDataMessage{
		Type:      MsgMarketData,
		Ticker:    ticker,
		Bid:       bid,
		Ask:       ask,
		Last:      last,
		BidSize:   bidSize,
		AskSize:   askSize,
		LastSize:  lastSize,
		Timestamp: ts.UnixMicro(),
	}
}

// NewErrorMessage builds an ERROR frame.
func NewErrorMessage(message string) ErrorMessage {
	return ErrorMessage{Type: MsgError, Message: message}
}

// NewExecutionReportMessage builds an EXECUTION_REPORT frame. matchID
// identifies the counterparty order; status is the wire vocabulary string
// an engine.OrderStatus already renders via its String method.
func NewExecutionReportMessage(orderID, matchID uint64, price float64, quantity uint32, status string, ts time.Time) ExecutionReportMessage {
	return ExecutionReportMessage{
		Type:      MsgExecutionReport,
		OrderID:   orderID,
		MatchID:   matchID,
		Price:     price,
		Quantity:  quantity,
		Status:    status,
		Timestamp: ts.UnixMicro(),
	}
}
