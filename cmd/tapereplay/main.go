// Command tapereplay drives the matching engine from a recorded CSV tape,
// the role original_source/main.cpp's LoadOrdersFromCSV + ProcessOrderMessages
// play in the reference implementation: read a tape, feed it through the
// book, report the resulting trades and query checksums.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/engine"
	"fenrir/internal/feed"
	"fenrir/internal/ingest"
	"fenrir/internal/metrics"
	"fenrir/internal/persist"
)

func main() {
	tapePath := flag.String("tape", "", "path to the CSV order tape to replay (required)")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9100)")
	dbDSN := flag.String("db-dsn", "", "if set, persist executed trades to this Postgres DSN")
	dbBatchSize := flag.Int("db-batch-size", 1000, "trade rows per COPY batch when -db-dsn is set")
	flag.Parse()

	if *tapePath == "" {
		fmt.Fprintln(os.Stderr, "tapereplay: -tape is required")
		os.Exit(2)
	}

	runID := uuid.New().String()
	log.Info().Str("run_id", runID).Str("tape", *tapePath).Msg("starting tape replay")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	tape, err := os.Open(*tapePath)
	if err != nil {
		log.Fatal().Err(err).Str("tape", *tapePath).Msg("opening tape file")
	}
	defer tape.Close()

	var rec feed.Recorder
	if *metricsAddr != "" {
		reg := metrics.New()
		rec = reg
		go func() {
			if err := reg.Serve(ctx, *metricsAddr); err != nil {
				log.Error().Err(err).Msg("metrics server exited")
			}
		}()
	}

	book := engine.NewOrderBook()
	pipeline := feed.New(book, rec)

	var tb tomb.Tomb
	tb.Go(func() error { return ingest.RunTape(tape, pipeline) })
	tb.Go(func() error { return pipeline.Run(&tb) })

	go func() {
		<-ctx.Done()
		tb.Kill(ctx.Err())
	}()

	if err := tb.Wait(); err != nil {
		log.Fatal().Err(err).Msg("tape replay failed")
	}

	trades := book.GetTrades()
	log.Info().
		Str("run_id", runID).
		Int("trade_count", len(trades)).
		Uint64("bid_checksum", pipeline.BidChecksum).
		Uint64("ask_checksum", pipeline.AskChecksum).
		Msg("tape replay complete")

	if *dbDSN != "" {
		if err := persistTrades(ctx, *dbDSN, runID, *dbBatchSize, trades); err != nil {
			log.Fatal().Err(err).Msg("persisting trades")
		}
	}
}

func persistTrades(ctx context.Context, dsn, runID string, batchSize int, trades []engine.Trade) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	sink := persist.NewSink(db, runID, batchSize)
	if err := sink.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	if err := sink.Flush(ctx, trades); err != nil {
		return fmt.Errorf("flushing trades: %w", err)
	}

	log.Info().Int("count", len(trades)).Msg("persisted trades")
	return nil
}
