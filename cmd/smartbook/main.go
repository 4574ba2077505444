package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"smartbook/internal/common"
	"smartbook/internal/engine"
	"smartbook/internal/ingest"
)

func main() {
	var (
		l2Path  = flag.String("l2", "data/sample_L2.txt", "path to the L2 snapshot feed")
		l3Path  = flag.String("l3", "data/sample_L3.txt", "path to the L3 update feed")
		tdPath  = flag.String("trades", "data/sample_trades.txt", "path to the trade print feed")
		execP   = flag.Float64("execution-probability", engine.DefaultExecutionProbability, "bias applied to a lone L2 reduction with no L3 confirmation, in [0,1]")
		seed    = flag.Int64("seed", 1, "seed for the engine's reconciliation RNG")
		verbose = flag.Bool("verbose", false, "enable debug-level logging")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	eng := engine.New(engine.Config{
		ExecutionProbability: *execP,
		Seed:                 *seed,
	})
	eng.SetCallbacks(engine.Callbacks{
		OnOrderAdd:       logCallback("add"),
		OnOrderCancel:    logCallback("cancel"),
		OnOrderModify:    logCallback("modify"),
		OnOrderExecution: logCallback("execution"),
	})

	events, err := ingest.Load(ctx, ingest.Files{
		L2Snapshots: *l2Path,
		L3Updates:   *l3Path,
		Trades:      *tdPath,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load market data feeds")
	}

	ingest.Dispatch(events, eng)
	log.Info().Int("trades", len(eng.Trades().All())).Msg("finished processing market data")
}

func logCallback(action string) func(info common.OrderInfo) {
	return func(info common.OrderInfo) {
		log.Info().
			Str("callback", action).
			Bool("guess", info.IsGuess).
			Int64("orderId", int64(info.OrderID)).
			Str("side", info.Side.String()).
			Str("price", info.Price.String()).
			Int64("size", int64(info.Size)).
			Msg("order event")
	}
}
