// Command backfill queues recent matches for a list of players and drains
// the stub backlog without starting the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/riskibarqy/rift-ledger/internal/app"
	"github.com/riskibarqy/rift-ledger/internal/config"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/usecase"
	flag "github.com/spf13/pflag"
)

type options struct {
	platform   string
	puuids     []string
	maxMatches int
	maxTicks   int
}

func main() {
	var opts options
	flag.StringVarP(&opts.platform, "platform", "p", "", "platform of every player, e.g. EUW1 (required)")
	flag.StringSliceVar(&opts.puuids, "puuid", nil, "player puuid, repeatable or comma separated")
	flag.IntVar(&opts.maxMatches, "max-matches", 0, "matches to discover per player (0 uses MAX_MATCHES)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 50, "stop draining after this many ingestion ticks")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewJSON(cfg.ServiceName+"-backfill", cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("backfill failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, logger *logging.Logger) error {
	if strings.TrimSpace(opts.platform) == "" || len(opts.puuids) == 0 {
		flag.Usage()
		return fmt.Errorf("--platform and at least one --puuid are required")
	}
	if opts.maxTicks <= 0 {
		return fmt.Errorf("--max-ticks must be > 0")
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() { _ = a.Close() }()

	for _, puuid := range opts.puuids {
		result, err := a.Refresh.TriggerIngestion(ctx, puuid, opts.platform, opts.maxMatches)
		if err != nil {
			logger.Warn("refresh player failed", "puuid", puuid, "error", err)
			continue
		}
		logger.Info("player queued",
			"puuid", puuid,
			"discovered", result.Discovered,
			"inserted", result.Inserted,
		)
	}

	total, err := drain(ctx, a.Scheduler, opts.maxTicks)
	logger.Info("backfill finished",
		"populated", total.Populated,
		"trashed", total.Trashed,
		"pending", total.Pending,
		"participants", total.Participants,
	)
	return err
}

type tickRunner interface {
	RunOnce(ctx context.Context) (usecase.BatchResult, error)
}

// drain runs ticks until the backlog is empty, a tick makes no progress or
// maxTicks is reached.
func drain(ctx context.Context, runner tickRunner, maxTicks int) (usecase.BatchResult, error) {
	var total usecase.BatchResult
	for i := 0; i < maxTicks; i++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		result, err := runner.RunOnce(ctx)
		if err != nil {
			return total, err
		}
		total.Requested += result.Requested
		total.Fetched += result.Fetched
		total.Populated += result.Populated
		total.Trashed += result.Trashed
		total.Pending = result.Pending
		total.Participants += result.Participants
		total.Renamed += result.Renamed

		if result.Requested == 0 || result.Populated+result.Trashed == 0 {
			break
		}
	}
	return total, nil
}
