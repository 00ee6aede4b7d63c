package protocol

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTime() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestDecodeOrderNewResolvesDuplicateTypeKey(t *testing.T) {
	line := []byte(`{"type":"ORDER_NEW","ticker":"AAPL","side":"BUY","type":"LIMIT","price":150.5,"quantity":100}`)

	msg, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, MsgOrderNew, msg.Type)
	require.NotNil(t, msg.OrderNew)
	assert.Equal(t, "AAPL", msg.OrderNew.Ticker)
	assert.Equal(t, "BUY", msg.OrderNew.Side)
	assert.Equal(t, "LIMIT", msg.OrderNew.OrderType)
	assert.Equal(t, 150.5, msg.OrderNew.Price)
	assert.Equal(t, int64(100), msg.OrderNew.Quantity)
}

func TestDecodeOrderNewMarket(t *testing.T) {
	line := []byte(`{"type":"ORDER_NEW","ticker":"MSFT","side":"SELL","type":"MARKET","quantity":10}`)
	msg, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, "MARKET", msg.OrderNew.OrderType)
}

func TestDecodeOrderCancel(t *testing.T) {
	line := []byte(`{"type":"ORDER_CANCEL","ticker":"AAPL","order_id":42}`)
	msg, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, MsgOrderCancel, msg.Type)
	require.NotNil(t, msg.OrderCancel)
	assert.Equal(t, "AAPL", msg.OrderCancel.Ticker)
	assert.Equal(t, uint64(42), msg.OrderCancel.OrderID)
}

func TestDecodeHeartbeatCarriesNoPayload(t *testing.T) {
	line := []byte(`{"type":"HEARTBEAT"}`)
	msg, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, MsgHeartbeat, msg.Type)
	assert.Nil(t, msg.OrderNew)
	assert.Nil(t, msg.OrderCancel)
}

func TestDecodeUnknownTypeIsIgnoredNotAnError(t *testing.T) {
	line := []byte(`{"type":"PORTFOLIO_SYNC","foo":"bar"}`)
	msg, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, MessageType("PORTFOLIO_SYNC"), msg.Type)
	assert.Nil(t, msg.OrderNew)
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)
	var malformed *ErrMalformed
	assert.ErrorAs(t, err, &malformed)
}

func TestDecodeMissingTypeField(t *testing.T) {
	_, err := Decode([]byte(`{"ticker":"AAPL"}`))
	assert.Error(t, err)
}

func TestDecodeRejectsNonObject(t *testing.T) {
	_, err := Decode([]byte(`[1,2,3]`))
	assert.Error(t, err)
}

func TestEncodeMarketDataRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	msg := NewMarketDataMessage("AAPL", 149.5, 150.5, 150.0, 100, 200, 50, fixedTime())
	require.NoError(t, Encode(&buf, msg))

	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"type":"MARKET_DATA"`)
	assert.Contains(t, buf.String(), `"ticker":"AAPL"`)
}

func TestEncodeExecutionReport(t *testing.T) {
	var buf bytes.Buffer
	msg := NewExecutionReportMessage(1, 2, 100.0, 50, "FILLED", fixedTime())
	require.NoError(t, Encode(&buf, msg))
	assert.Contains(t, buf.String(), `"type":"EXECUTION_REPORT"`)
	assert.Contains(t, buf.String(), `"status":"FILLED"`)
}

func TestEncodeError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, NewErrorMessage("Order not found")))
	assert.Contains(t, buf.String(), `"message":"Order not found"`)
}
