package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liftsim/src/building"
	"liftsim/src/config"
	"liftsim/src/events"
	"liftsim/src/executor"
	"liftsim/src/network"
	"liftsim/src/timer"
	"liftsim/src/utils"

	"github.com/xyproto/randomstring"
)

const statusInterval = 250 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	envPath := flag.String("env", ".env", "dotenv file with LIFTSIM_* overrides")
	seed := flag.Uint64("seed", 0, "random seed (0 keeps the config seed, or picks one from the clock)")
	duration := flag.Duration("duration", 0, "simulated time to run (0 runs until interrupted)")
	step := flag.Duration("step", 50*time.Millisecond, "simulation step, or tick interval with -realtime")
	realtime := flag.Bool("realtime", false, "advance with wall-clock time instead of as fast as possible")
	httpAddr := flag.String("http", "", "serve the HTTP API on this address, e.g. :8080")
	interactive := flag.Bool("interactive", false, "read keyboard commands (m, +, -, 0-6, p, q)")
	journalPath := flag.String("journal", "", "write simulation events as JSON lines to this file")
	logFile := flag.String("log-file", "", "write logs to this file instead of stderr")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	runID := flag.String("run-id", "", "identifier attached to logs and journal (random when empty)")
	flag.Parse()

	if *runID == "" {
		*runID = randomstring.EnglishFrequencyString(8)
	}
	closeLog, err := utils.InitLogger(*logLevel, *logFile, *runID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeLog()

	if err := run(options{
		configPath:  *configPath,
		envPath:     *envPath,
		seed:        *seed,
		duration:    *duration,
		step:        *step,
		realtime:    *realtime,
		httpAddr:    *httpAddr,
		interactive: *interactive,
		journalPath: *journalPath,
		runID:       *runID,
	}); err != nil {
		slog.Error("Simulation failed", "error", err)
		closeLog()
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	envPath     string
	seed        uint64
	duration    time.Duration
	step        time.Duration
	realtime    bool
	httpAddr    string
	interactive bool
	journalPath string
	runID       string
}

func run(opts options) error {
	if opts.step <= 0 {
		return fmt.Errorf("step must be positive, got %v", opts.step)
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&cfg, opts.envPath); err != nil {
		return err
	}
	switch {
	case opts.seed != 0:
		cfg.Seed = opts.seed
	case cfg.Seed == 0:
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	listeners := events.Multi{
		events.NewNarrator(rand.New(rand.NewPCG(cfg.Seed, 0x5eed)), func(category, phrase string) {
			slog.Info(phrase, "category", category)
		}),
	}
	if opts.journalPath != "" {
		f, err := os.Create(opts.journalPath)
		if err != nil {
			return fmt.Errorf("create journal: %w", err)
		}
		defer f.Close()
		listeners = append(listeners, events.NewJournal(f, opts.runID))
	}

	b, err := building.New(cfg, building.WithListener(listeners))
	if err != nil {
		return err
	}
	slog.Info("Simulation starting", "seed", cfg.Seed, "realtime", opts.realtime, "step", opts.step)

	mgr := executor.Start(b)
	defer mgr.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpDone := make(chan error, 1)
	if opts.httpAddr != "" {
		go func() { httpDone <- network.Serve(ctx, opts.httpAddr, mgr) }()
	} else {
		close(httpDone)
	}

	var keyCh chan utils.KeyCommand
	if opts.interactive {
		keyCh = make(chan utils.KeyCommand)
		go utils.ReadKeys(keyCh)
	}

	if opts.realtime {
		runRealtime(ctx, mgr, opts, keyCh)
	} else {
		runHeadless(ctx, mgr, opts, keyCh)
	}
	stop()
	if err := <-httpDone; err != nil {
		slog.Error("HTTP server failed", "error", err)
	}

	utils.PrintSummary(os.Stdout, mgr.Latest())
	return nil
}

// runHeadless advances by a fixed step as fast as possible.
func runHeadless(ctx context.Context, mgr *executor.Mgr, opts options, keyCh chan utils.KeyCommand) {
	var simTime time.Duration
	lastStatus := time.Now()
	paused := false
	for opts.duration == 0 || simTime < opts.duration {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-keyCh:
			if !ok {
				keyCh = nil
				continue
			}
			if handleKey(mgr, cmd, &paused, nil) {
				return
			}
			continue
		default:
		}
		if paused {
			time.Sleep(opts.step)
			continue
		}
		mgr.Step(opts.step)
		simTime += opts.step
		if time.Since(lastStatus) >= statusInterval {
			utils.PrintStatus(os.Stdout, mgr.Latest())
			lastStatus = time.Now()
		}
	}
}

// runRealtime advances by the wall time measured between ticks.
func runRealtime(ctx context.Context, mgr *executor.Mgr, opts options, keyCh chan utils.KeyCommand) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	tickCh := make(chan time.Duration)
	actionCh := make(chan timer.Action)
	go timer.Ticker(ctx, opts.step, tickCh, actionCh)

	status := time.NewTicker(statusInterval)
	defer status.Stop()
	var simTime time.Duration
	paused := false
	for {
		select {
		case <-ctx.Done():
			return
		case elapsed := <-tickCh:
			mgr.Step(elapsed)
			simTime += elapsed
			if opts.duration > 0 && simTime >= opts.duration {
				return
			}
		case cmd, ok := <-keyCh:
			if !ok {
				keyCh = nil
				continue
			}
			if handleKey(mgr, cmd, &paused, actionCh) {
				return
			}
		case <-status.C:
			utils.PrintStatus(os.Stdout, mgr.Latest())
		}
	}
}

// handleKey applies a keyboard command and reports whether to quit.
func handleKey(mgr *executor.Mgr, cmd utils.KeyCommand, paused *bool, actionCh chan<- timer.Action) bool {
	var err error
	switch cmd.Action {
	case utils.Quit:
		return true
	case utils.TogglePause:
		*paused = !*paused
		if actionCh != nil {
			action := timer.Start
			if *paused {
				action = timer.Stop
			}
			actionCh <- action
		}
	case utils.ToggleMode:
		err = mgr.Try(func(b *building.Building) error {
			return b.SetControlMode(utils.NextMode(b.Settings().ControlMode))
		})
	case utils.MoreCars:
		err = mgr.Try(func(b *building.Building) error {
			return b.SetNumActiveCars(b.Settings().NumActiveCars + 1)
		})
	case utils.FewerCars:
		err = mgr.Try(func(b *building.Building) error {
			return b.SetNumActiveCars(b.Settings().NumActiveCars - 1)
		})
	case utils.SetLoad:
		err = mgr.Try(func(b *building.Building) error {
			return b.SetPassengerLoad(cmd.Level)
		})
	}
	if err != nil {
		slog.Warn("Keyboard command rejected", "error", err)
	}
	return false
}
