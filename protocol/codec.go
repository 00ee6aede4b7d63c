package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ErrMalformed wraps any decode failure for an inbound line: bad JSON, a
// value that is not an object, or an object with no "type" key. An object
// of an unrecognized type is not an error; it decodes with no payload.
type ErrMalformed struct {
	Line string
	Err  error
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("malformed message: %v", e.Err)
}

func (e *ErrMalformed) Unwrap() error { return e.Err }

// Decode parses one line of inbound JSON. ORDER_NEW objects carry two
// JSON keys both named "type": the first is the message type
// ("ORDER_NEW"), the second the order type ("MARKET"/"LIMIT").
// encoding/json.Unmarshal keeps only the last occurrence of a duplicate
// key, which would silently discard the message type — so this walks the
// token stream instead, recording every "type" value in document order.
func Decode(line []byte) (*InboundMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(line))

	tok, err := dec.Token()
	if err != nil {
		return nil, &ErrMalformed{Line: string(line), Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &ErrMalformed{Line: string(line), Err: fmt.Errorf("expected a JSON object")}
	}

	var typeValues []string
	fields := make(map[string]json.RawMessage)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &ErrMalformed{Line: string(line), Err: err}
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, &ErrMalformed{Line: string(line), Err: fmt.Errorf("expected a string key")}
		}

		if key == "type" {
			var v string
			if err := dec.Decode(&v); err != nil {
				return nil, &ErrMalformed{Line: string(line), Err: err}
			}
			typeValues = append(typeValues, v)
			continue
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, &ErrMalformed{Line: string(line), Err: err}
		}
		fields[key] = raw
	}

	if len(typeValues) == 0 {
		return nil, &ErrMalformed{Line: string(line), Err: fmt.Errorf("missing type field")}
	}

	msgType := MessageType(typeValues[0])
	msg := &InboundMessage{Type: msgType}

	switch msgType {
	case MsgOrderNew:
		req := &OrderNewRequest{}
		if v, ok := fields["ticker"]; ok {
			_ = json.Unmarshal(v, &req.Ticker)
		}
		if v, ok := fields["side"]; ok {
			_ = json.Unmarshal(v, &req.Side)
		}
		if v, ok := fields["price"]; ok {
			_ = json.Unmarshal(v, &req.Price)
		}
		if v, ok := fields["quantity"]; ok {
			_ = json.Unmarshal(v, &req.Quantity)
		}
		if len(typeValues) > 1 {
			req.OrderType = typeValues[1]
		}
		msg.OrderNew = req

	case MsgOrderCancel:
		req := &OrderCancelRequest{}
		if v, ok := fields["ticker"]; ok {
			_ = json.Unmarshal(v, &req.Ticker)
		}
		if v, ok := fields["order_id"]; ok {
			_ = json.Unmarshal(v, &req.OrderID)
		}
		msg.OrderCancel = req

	default:
		// HEARTBEAT and any unrecognized type carry no payload the
		// dispatcher needs; caller ignores them.
	}

	return msg, nil
}

// Encode serializes v as a single JSON line, newline-terminated, and
// writes it to w. One call is one wire frame.
func Encode(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
