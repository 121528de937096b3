// Package ingest is the CSV tape producer: one of the external collaborators
// spec.md calls out as out of scope for the engine itself. It turns the
// reference CSV tape format (see spec.md §6) into feed.Message values and
// pushes them into a feed.Pipeline, closing the producer side once the tape
// is exhausted.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"

	"fenrir/internal/engine"
	"fenrir/internal/feed"
)

// ErrUnknownVariant is returned by parseRecord for a leading field that
// isn't one of the four message variants in spec.md §6.
var ErrUnknownVariant = errors.New("unknown message variant")

// RunTape reads the CSV tape from r, pushing one feed.Message per data row
// into p, and closes p's producer side when the tape is exhausted. Intended
// to run as the pipeline's single producer goroutine. A malformed record is
// logged and skipped rather than aborting the whole tape, matching the
// "benign feed noise" handling spec.md's error taxonomy applies elsewhere.
func RunTape(r io.Reader, p *feed.Pipeline) error {
	defer p.CloseProducer()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // field count varies by variant

	if _, err := reader.Read(); err != nil { // header row, always skipped
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("reading tape header: %w", err)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tape record: %w", err)
		}

		msg, err := parseRecord(record)
		if err != nil {
			log.Error().Err(err).Strs("record", record).Msg("skipping malformed tape record")
			continue
		}
		p.Push(msg)
	}
}

func parseRecord(record []string) (feed.Message, error) {
	if len(record) == 0 {
		return feed.Message{}, errors.New("empty record")
	}
	switch record[0] {
	case "AddOrder":
		return parseAddOrder(record)
	case "CancelOrder":
		return parseCancelOrder(record)
	case "GetBestBid":
		return feed.GetBestBid(), nil
	case "GetAskVolumeBetweenPrices":
		return parseVolumeQuery(record)
	default:
		return feed.Message{}, fmt.Errorf("%w: %q", ErrUnknownVariant, record[0])
	}
}

func parseAddOrder(record []string) (feed.Message, error) {
	if len(record) < 5 {
		return feed.Message{}, fmt.Errorf("AddOrder: expected 5 fields, got %d", len(record))
	}
	orderID, err := parseUint32(record[1])
	if err != nil {
		return feed.Message{}, fmt.Errorf("AddOrder order_id: %w", err)
	}
	side, err := parseSide(record[2])
	if err != nil {
		return feed.Message{}, err
	}
	price, err := parseUint32(record[3])
	if err != nil {
		return feed.Message{}, fmt.Errorf("AddOrder price: %w", err)
	}
	quantity, err := parseUint32(record[4])
	if err != nil {
		return feed.Message{}, fmt.Errorf("AddOrder quantity: %w", err)
	}
	return feed.Add(engine.Order{OrderID: orderID, Side: side, Price: price, Quantity: quantity}), nil
}

func parseCancelOrder(record []string) (feed.Message, error) {
	if len(record) < 2 {
		return feed.Message{}, fmt.Errorf("CancelOrder: expected 2 fields, got %d", len(record))
	}
	orderID, err := parseUint32(record[1])
	if err != nil {
		return feed.Message{}, fmt.Errorf("CancelOrder order_id: %w", err)
	}
	return feed.Cancel(orderID), nil
}

// parseVolumeQuery skips leading empty fields before the lower/upper price
// pair: "GetAskVolumeBetweenPrices,,,,lower_price,upper_price", maintained
// strictly for backward compatibility with the reference CSV shape.
func parseVolumeQuery(record []string) (feed.Message, error) {
	fields := record[1:]
	i := 0
	for i < len(fields) && fields[i] == "" {
		i++
	}
	if i+1 >= len(fields) {
		return feed.Message{}, errors.New("GetAskVolumeBetweenPrices: missing lower/upper price")
	}
	low, err := parseUint32(fields[i])
	if err != nil {
		return feed.Message{}, fmt.Errorf("GetAskVolumeBetweenPrices lower_price: %w", err)
	}
	high, err := parseUint32(fields[i+1])
	if err != nil {
		return feed.Message{}, fmt.Errorf("GetAskVolumeBetweenPrices upper_price: %w", err)
	}
	return feed.GetAskVolumeBetweenPrices(low, high), nil
}

func parseSide(s string) (engine.Side, error) {
	switch s {
	case "buy":
		return engine.Buy, nil
	case "sell":
		return engine.Sell, nil
	default:
		return engine.Undefined, fmt.Errorf("unknown order side %q", s)
	}
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
