package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/coursewalk/internal/app"
	"github.com/abhisek/coursewalk/internal/autoplay"
	"github.com/abhisek/coursewalk/internal/config"
	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/llm"
	"github.com/abhisek/coursewalk/internal/logging"
	"github.com/abhisek/coursewalk/internal/navigation"
	"github.com/abhisek/coursewalk/internal/progress"
	"github.com/abhisek/coursewalk/internal/qa"
	"github.com/abhisek/coursewalk/internal/session"
	"github.com/abhisek/coursewalk/internal/store"
)

// appRuntime is what a command needs once flags and config are resolved.
type appRuntime struct {
	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
	db       *store.Store
}

// setup loads the config, starts logging and opens the database.
func setup(cmd *cobra.Command) (*appRuntime, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if c, _ := cmd.Flags().GetString("course"); c != "" {
		cfg.Course = c
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger, closeLog, err := logging.New(logging.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		Debug:      debug,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("start logging: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}

	logger.Debug("runtime ready",
		zap.String("command", cmd.CommandPath()),
		zap.String("db", dbPath),
		zap.String("course", cfg.Course))
	return &appRuntime{cfg: cfg, logger: logger, closeLog: closeLog, db: db}, nil
}

func (r *appRuntime) Close() {
	if err := r.db.Close(); err != nil {
		r.logger.Warn("close store", zap.Error(err))
	}
	_ = r.closeLog()
}

// loadCourse reads the configured course file.
func (r *appRuntime) loadCourse() (*course.Course, error) {
	if r.cfg.Course == "" {
		return nil, errors.New("no course selected; pass --course or set COURSEWALK_COURSE")
	}
	c, err := course.Load(r.cfg.Course)
	if err != nil {
		return nil, err
	}
	if r.cfg.StoragePrefix != "" {
		c.Config.StoragePrefix = r.cfg.StoragePrefix
	}
	return c, nil
}

// llmConfig turns the llm config section into a resolved llm.Config.
func (r *appRuntime) llmConfig() llm.Config {
	c := r.cfg.LLM
	return llm.Config{
		Provider: c.Provider,
		Endpoint: llm.Endpoint{APIKey: c.APIKey, Model: c.Model, BaseURL: c.BaseURL},
		Retry: llm.RetryConfig{
			MaxAttempts: c.Retry.MaxAttempts,
			InitialWait: c.Retry.InitialWait,
			MaxWait:     c.Retry.MaxWait,
			Multiplier:  c.Retry.Multiplier,
		},
	}.Resolve()
}

// provider returns the configured LLM provider, or nil with a log line
// when none is configured.
func (r *appRuntime) provider(ctx context.Context) llm.Provider {
	lcfg := r.llmConfig()
	if !lcfg.Configured() {
		r.logger.Info("LLM provider not configured; AI answers are off")
		return nil
	}
	p, err := llm.NewProvider(ctx, lcfg, r.db.EventRepo(), r.logger)
	if err != nil {
		r.logger.Warn("LLM provider unavailable", zap.Error(err))
		return nil
	}
	return p
}

// openSession loads the course and resumes the learner's session. The AI
// collaborator is wired only when withAsker is set.
func (r *appRuntime) openSession(ctx context.Context, withAsker bool) (*session.Session, error) {
	c, err := r.loadCourse()
	if err != nil {
		return nil, err
	}

	opts := session.Options{
		Navigation: navigation.Config{
			Cooldown:       r.cfg.Navigation.Cooldown,
			WheelThreshold: r.cfg.Navigation.WheelThreshold,
			TouchThreshold: r.cfg.Navigation.TouchThreshold,
		},
		Autoplay: autoplay.Settings{
			Speed: r.cfg.Autoplay.Speed,
			Min:   r.cfg.Autoplay.Min,
			Max:   r.cfg.Autoplay.Max,
			Step:  r.cfg.Autoplay.Step,
		},
		Window:     r.cfg.Context.Window,
		AskTimeout: r.cfg.Ask.Timeout,
		Logger:     r.logger,
	}
	if withAsker {
		if p := r.provider(ctx); p != nil {
			opts.Asker = qa.NewLLMAsker(p, c.Config.Title)
		}
	}

	st := progress.New(r.db.Medium(), c.Config.StoragePrefix, r.logger)
	return session.Open(ctx, c, st, opts)
}

// runApp opens the session and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	sess, err := rt.openSession(ctx, true)
	if err != nil {
		return err
	}
	return app.Run(ctx, sess, rt.logger)
}
