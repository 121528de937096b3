package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/engine"
	"fenrir/internal/feed"
)

const sampleTape = `message_type,order_id,side,price,quantity,lower_price,upper_price
AddOrder,1,buy,100,5
AddOrder,2,sell,100,5
GetBestBid,,,,
CancelOrder,1
GetAskVolumeBetweenPrices,,,,10,200
`

func TestRunTape_ParsesAllVariantsAndFeedsPipeline(t *testing.T) {
	book := engine.NewOrderBook()
	p := feed.New(book, nil)

	var tb tomb.Tomb
	tb.Go(func() error { return RunTape(strings.NewReader(sampleTape), p) })
	tb.Go(func() error { return p.Run(&tb) })
	require.NoError(t, tb.Wait())

	// the ring is FIFO, so order 1 is fully matched against order 2 before
	// the CancelOrder for id 1 is dispatched, and the cancel is a no-op.
	trades := book.GetTrades()
	require.Len(t, trades, 1)
	assert.Equal(t, uint32(1), trades[0].BuyOrderID)
	assert.Equal(t, uint32(2), trades[0].SellOrderID)
	assert.Equal(t, uint32(100), trades[0].Price)
	assert.Equal(t, uint32(5), trades[0].Quantity)
}

func TestParseRecord_UnknownVariant(t *testing.T) {
	_, err := parseRecord([]string{"FrobnicateOrder", "1"})
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestParseRecord_AddOrder(t *testing.T) {
	msg, err := parseRecord([]string{"AddOrder", "7", "sell", "150", "3"})
	require.NoError(t, err)
	assert.Equal(t, feed.KindAdd, msg.Kind)
	assert.Equal(t, engine.Order{OrderID: 7, Side: engine.Sell, Price: 150, Quantity: 3}, msg.Order)
}

func TestParseRecord_CancelOrder(t *testing.T) {
	msg, err := parseRecord([]string{"CancelOrder", "42"})
	require.NoError(t, err)
	assert.Equal(t, feed.KindCancel, msg.Kind)
	assert.Equal(t, uint32(42), msg.OrderID)
}

func TestParseRecord_VolumeQuerySkipsEmptyFields(t *testing.T) {
	msg, err := parseRecord([]string{"GetAskVolumeBetweenPrices", "", "", "", "10", "20"})
	require.NoError(t, err)
	assert.Equal(t, feed.KindGetAskVolumeBetweenPrices, msg.Kind)
	assert.Equal(t, uint32(10), msg.LowPrice)
	assert.Equal(t, uint32(20), msg.HighPrice)
}

func TestRunTape_SkipsMalformedRecordButContinues(t *testing.T) {
	const tape = "header\nAddOrder,not-a-number,buy,100,5\nAddOrder,1,buy,100,5\n"
	book := engine.NewOrderBook()
	p := feed.New(book, nil)

	var tb tomb.Tomb
	tb.Go(func() error { return RunTape(strings.NewReader(tape), p) })
	tb.Go(func() error { return p.Run(&tb) })
	require.NoError(t, tb.Wait())

	assert.Equal(t, uint32(5), book.GetBidQuantity())
}
