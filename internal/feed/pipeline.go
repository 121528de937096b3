package feed

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/engine"
)

// consumerBackoff is how long the consumer sleeps when it finds the ring
// empty and the producer has not yet signaled done, per spec.md §4.5/§5.
const consumerBackoff = 10 * time.Microsecond

// Recorder is the narrow interface Pipeline reports throughput through.
// internal/metrics.Registry satisfies it; nil is also a valid Recorder via
// noopRecorder so a Pipeline can run with metrics disabled.
type Recorder interface {
	MessageProcessed()
	TradeExecuted(quantity uint32)
	SetRingDepth(depth int)
}

type noopRecorder struct{}

func (noopRecorder) MessageProcessed()    {}
func (noopRecorder) TradeExecuted(uint32) {}
func (noopRecorder) SetRingDepth(int)     {}

// Pipeline is the SPSC feed-and-process handoff between tape ingest and the
// book. Exactly one goroutine may call Push (the producer) and exactly one
// goroutine may call Run (the consumer); the OrderBook is owned by that
// consumer goroutine alone for the lifetime of the Pipeline.
type Pipeline struct {
	ring *ring[Message]
	done atomic.Bool
	book *engine.OrderBook
	rec  Recorder

	// BidChecksum and AskChecksum fold query results so a benchmark can't
	// have the compiler dead-code-eliminate the matching work away, the
	// same role the source's debug_dummy_volume_{ask,bid} accumulators play.
	BidChecksum uint64
	AskChecksum uint64
}

// New builds a Pipeline dispatching onto book. If rec is nil, throughput
// reporting is a no-op.
func New(book *engine.OrderBook, rec Recorder) *Pipeline {
	if rec == nil {
		rec = noopRecorder{}
	}
	return &Pipeline{
		ring: newRing[Message](),
		book: book,
		rec:  rec,
	}
}

// Push enqueues msg for the consumer. Only the producer goroutine may call
// this. Busy-spins if the ring is momentarily full.
func (p *Pipeline) Push(msg Message) {
	p.ring.push(msg)
}

// CloseProducer signals that no further messages will be pushed. The
// consumer drains whatever remains in the ring and then returns.
func (p *Pipeline) CloseProducer() {
	p.done.Store(true)
}

// Run is the consumer loop: pop one message at a time and dispatch it into
// the book, until the producer is done and the ring is empty, or the tomb
// is dying. Launched as t.Go(func() error { return pipeline.Run(&t) }).
func (p *Pipeline) Run(t *tomb.Tomb) error {
	log.Info().Msg("feed pipeline consumer starting")
	defer log.Info().
		Uint64("bid_checksum", p.BidChecksum).
		Uint64("ask_checksum", p.AskChecksum).
		Msg("feed pipeline consumer exiting")

	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		msg, ok := p.ring.tryPop()
		if !ok {
			if p.done.Load() {
				return nil
			}
			time.Sleep(consumerBackoff)
			continue
		}

		p.dispatch(msg)
		p.rec.MessageProcessed()
		p.rec.SetRingDepth(p.ring.depth())
	}
}

func (p *Pipeline) dispatch(msg Message) {
	tradesBefore := len(p.book.GetTrades())

	switch msg.Kind {
	case KindAdd:
		if err := p.book.AddOrder(msg.Order); err != nil {
			log.Debug().Err(err).Uint32("order_id", msg.Order.OrderID).Msg("rejected order message")
		}
	case KindCancel:
		p.book.CancelOrderbyId(msg.OrderID)
	case KindGetBestBid:
		_, qty := p.book.GetBestBidWithQuantity()
		p.BidChecksum += uint64(qty)
	case KindGetAskVolumeBetweenPrices:
		vol := p.book.GetVolumeBetweenPrices(msg.LowPrice, msg.HighPrice)
		p.AskChecksum += uint64(vol)
	}

	for _, t := range p.book.GetTrades()[tradesBefore:] {
		p.rec.TradeExecuted(t.Quantity)
	}
}
