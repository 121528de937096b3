// Package persist mirrors executed trades to a durable store for audit and
// tape-replay correlation. It is a one-way sink: the engine never reloads
// from it, and it is never on the hot path the Matcher runs on (see
// spec.md §5, "a long-running consumer may periodically drain [the trade
// log] to the trade sink to bound memory").
package persist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"fenrir/internal/engine"
)

const defaultBatchSize = 1000

// Sink batches executed trades and flushes them to Postgres via COPY,
// grounded on lightsgoout-go-quantcup's db.go pq.CopyIn batch-persistence:
// row-at-a-time INSERTs cannot keep up with matcher throughput.
type Sink struct {
	db        *sql.DB
	runID     string
	batchSize int
}

// NewSink returns a Sink that tags every persisted trade with runID, so a
// row can be correlated back to the tape file that produced it.
func NewSink(db *sql.DB, runID string, batchSize int) *Sink {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Sink{db: db, runID: runID, batchSize: batchSize}
}

// EnsureSchema creates the trades table if it does not already exist.
func (s *Sink) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS trades (
			id            SERIAL PRIMARY KEY,
			run_id        TEXT        NOT NULL,
			buy_order_id  BIGINT      NOT NULL,
			sell_order_id BIGINT      NOT NULL,
			price         BIGINT      NOT NULL,
			quantity      BIGINT      NOT NULL,
			executed_at   TIMESTAMPTZ NOT NULL
		)`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Flush writes trades to Postgres in batches, each batch its own COPY
// transaction.
func (s *Sink) Flush(ctx context.Context, trades []engine.Trade) error {
	for _, bounds := range batchBounds(len(trades), s.batchSize) {
		batch := trades[bounds[0]:bounds[1]]
		if err := s.flushBatch(ctx, batch); err != nil {
			return fmt.Errorf("flushing trade batch [%d:%d): %w", bounds[0], bounds[1], err)
		}
	}
	return nil
}

func (s *Sink) flushBatch(ctx context.Context, batch []engine.Trade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("trades",
		"run_id", "buy_order_id", "sell_order_id", "price", "quantity", "executed_at"))
	if err != nil {
		return err
	}

	for _, t := range batch {
		if _, err := stmt.ExecContext(ctx, s.runID, t.BuyOrderID, t.SellOrderID, t.Price, t.Quantity, t.Timestamp); err != nil {
			return err
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return err
	}
	if err := stmt.Close(); err != nil {
		return err
	}

	log.Debug().Int("count", len(batch)).Str("run_id", s.runID).Msg("flushed trade batch")
	return tx.Commit()
}

// batchBounds splits [0, total) into contiguous [start, end) chunks no
// larger than size. Extracted as a pure function so the chunking math can
// be tested without a database.
func batchBounds(total, size int) [][2]int {
	if size <= 0 {
		size = total
	}
	if size <= 0 {
		return nil
	}
	bounds := make([][2]int, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}
