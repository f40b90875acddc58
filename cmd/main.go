// Command simulator runs the single-security market simulator: the engine
// loop, the background schedulers and the HTTP dashboard.
//
// Usage:
//
//	simulator --config config.yaml
//	simulator (uses CLI arguments)
//	simulator setup (interactive config wizard)
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BoraOzcoban/ma-simulatiion/config"
	"github.com/BoraOzcoban/ma-simulatiion/dashboard"
	"github.com/BoraOzcoban/ma-simulatiion/internal/engine"
	"github.com/BoraOzcoban/ma-simulatiion/internal/sampling"
	"github.com/BoraOzcoban/ma-simulatiion/internal/scheduler"
	"github.com/BoraOzcoban/ma-simulatiion/internal/services/finance"
	"github.com/BoraOzcoban/ma-simulatiion/internal/services/orderbook"
	"github.com/BoraOzcoban/ma-simulatiion/internal/setup"
	"github.com/BoraOzcoban/ma-simulatiion/internal/storage/snapshot"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	store, err := snapshot.NewWALStore(cfg.WALDir, logger)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	defer store.Close()

	sampler := sampling.NewRand()
	books := orderbook.NewEngine(sampler)
	simulator := finance.NewSimulator(sampler, logger)
	orch := engine.NewOrchestrator(books, simulator, cfg.InitialPrice, logger)

	initial, recovered := store.Load(orch.Initial())
	if recovered {
		logger.Info("state recovered from snapshot", zap.String("price", initial.Price.String()))
	} else {
		logger.Info("starting from baseline state", zap.String("price", initial.Price.String()))
	}

	loop := engine.NewLoop(orch, store, initial, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return loop.Run(ctx)
	})
	g.Go(func() error {
		return scheduler.NewNudge(loop, sampler, cfg.NudgeInterval, logger).Run(ctx)
	})
	g.Go(func() error {
		return scheduler.NewHeadline(loop, sampler,
			cfg.HeadlineDelayMin, cfg.HeadlineDelayMode, cfg.HeadlineDelayMax, logger).Run(ctx)
	})
	g.Go(func() error {
		server := dashboard.NewServer(cfg.ListenAddr, loop, logger)
		if len(cfg.TLSDomains) > 0 {
			return server.StartWithAutoTLS(ctx, cfg.TLSDomains, cfg.CertCacheDir)
		}
		return server.Start(ctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Fatal("simulator stopped", zap.Error(err))
	}
	logger.Info("simulator shut down")
}
