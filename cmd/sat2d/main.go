package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zeusync/sat2d/internal/config"
	"github.com/zeusync/sat2d/internal/core/observability/log"
	"github.com/zeusync/sat2d/internal/injector"
	"github.com/zeusync/sat2d/internal/simulation"
	"github.com/zeusync/sat2d/pkg/concurrent"
)

type result struct {
	scene    string
	ticks    uint64
	contacts uint64
	digest   uint64
}

func main() {
	var (
		scenes   = flag.String("scene", "examples/scenes/playground.yaml", "comma separated scene files (.yaml, .yml, .json)")
		ticks    = flag.Uint64("ticks", 600, "ticks to simulate per scene; 0 runs until interrupted")
		workers  = flag.Int("workers", 0, "scenes simulated concurrently; 0 means all")
		serve    = flag.String("serve", "", "serve a websocket snapshot feed on this address (single scene only)")
		logLevel = flag.String("log-level", "", "override the scene log level (debug, info, warn, error, silent)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := splitList(*scenes)
	if err := run(ctx, paths, *ticks, *workers, *serve, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "sat2d:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, paths []string, ticks uint64, workers int, serve, logLevel string) error {
	if len(paths) == 0 {
		return errors.New("no scenes given")
	}
	if serve != "" && len(paths) != 1 {
		return errors.New("-serve needs exactly one scene")
	}
	if ticks == 0 && serve == "" {
		return errors.New("-ticks 0 is only allowed with -serve")
	}

	var (
		results []result
		err     error
	)
	if serve != "" {
		var r result
		if r, err = runScene(ctx, paths[0], ticks, serve, logLevel); err == nil {
			results = []result{r}
		}
	} else {
		results, err = concurrent.Map(ctx, paths, workers, func(ctx context.Context, path string) (result, error) {
			return runScene(ctx, path, ticks, serve, logLevel)
		})
	}
	for _, r := range results {
		fmt.Printf("%s\tticks=%d\tcontacts=%d\tdigest=%016x\n", r.scene, r.ticks, r.contacts, r.digest)
	}
	return err
}

func runScene(ctx context.Context, path string, ticks uint64, serve, logLevel string) (result, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return result{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	sim, err := injector.InitializeSimulation(cfg)
	if err != nil {
		return result{}, fmt.Errorf("%s: %w", path, err)
	}
	defer sim.Close()

	var pace time.Duration
	if serve != "" {
		level, _ := log.ParseLevel(cfg.LogLevel)
		feed := injector.InitializeFeed(level)
		if err = feed.Start(ctx, serve); err != nil {
			return result{}, err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = feed.Stop(shutdownCtx)
		}()
		sim.OnSnapshot(func(s simulation.Snapshot) { _ = feed.Publish(s) })
		pace = cfg.TickDuration()
	}

	err = sim.Run(ctx, ticks, pace)
	if serve != "" && errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return result{}, fmt.Errorf("%s: %w", path, err)
	}
	return result{
		scene:    path,
		ticks:    sim.Tick(),
		contacts: sim.Contacts(),
		digest:   sim.World().Digest(),
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
