package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/breakdown"
	"github.com/balkashynov/flowstate/internal/config"
	"github.com/balkashynov/flowstate/internal/engine"
	"github.com/balkashynov/flowstate/internal/logger"
	"github.com/balkashynov/flowstate/internal/metrics"
	"github.com/balkashynov/flowstate/internal/store"
)

// app is everything one command invocation needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	closer  io.Closer
	kv      store.KV
	svc     *engine.Service
	metrics *metrics.Recorder
	out     io.Writer
}

// clock is replaced in tests.
var clock = time.Now

func openApp(ctx context.Context, out io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		logger.Sync(log, closer)
		return nil, err
	}

	ids, err := engine.NewSnowflakeIDs(cfg.NodeID)
	if err != nil {
		_ = kv.Close()
		logger.Sync(log, closer)
		return nil, err
	}

	rng := rand.New(rand.NewSource(clock().UnixNano()))
	repo := store.NewRepository(kv, engine.StoreDefaults(clock, rng), log)
	rec := metrics.NewRecorder()

	var gen breakdown.Generator
	if cfg.Gemini.APIKey != "" {
		g, err := breakdown.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
		if err != nil {
			log.Warn("task breakdown unavailable", zap.Error(err))
		} else {
			gen = g
		}
	}

	svc := engine.NewService(engine.Options{
		Repo:      repo,
		Generator: gen,
		Observer:  rec,
		Logger:    log,
		IDs:       ids,
		Rand:      rng,
		Clock:     clock,
	})

	return &app{cfg: cfg, log: log, closer: closer, kv: kv, svc: svc, metrics: rec, out: out}, nil
}

func (a *app) Close() {
	if a.cfg.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			a.log.Warn("failed to write metrics textfile", zap.String("path", a.cfg.MetricsFile), zap.Error(err))
		}
	}
	if err := a.kv.Close(); err != nil {
		a.log.Error("failed to close store", zap.Error(err))
	}
	logger.Sync(a.log, a.closer)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// commandContext is cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

// withApp wires the app for a command that does not need a logged-in user.
func withApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		a, err := openApp(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()
		return render(a, fn(ctx, a, cmd, args))
	}
}

// withSession additionally resumes the stored session, which reconciles
// streaks, ritual resets and achievements before fn runs.
func withSession(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if err := a.svc.Resume(ctx); err != nil {
			return err
		}
		printResume(a)
		return fn(ctx, a, cmd, args)
	})
}

// printResume announces what the daily reconcile changed.
func printResume(a *app) {
	r := a.svc.LastResume()
	if r.Reset.DailyRegenerated {
		a.printf("🌅 New daily rituals are ready.\n")
	}
	if r.Reset.WeeklyRolled > 0 {
		a.printf("📅 Weekly rituals have been reset.\n")
	}
	for _, up := range r.TierUps {
		a.printf("🏆 %s reached %s (level %d)\n", up.Title, up.Tier, up.Level)
	}
}

// render prints precondition and lookup failures inline and swallows them so
// the command exits zero. Anything else is returned.
func render(a *app, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if apperr.IsKind(err, apperr.KindPrecondition) || apperr.IsKind(err, apperr.KindNotFound) {
		a.printf("✗ %v\n", err)
		return nil
	}
	return err
}
