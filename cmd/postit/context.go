package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/tgienger/postit/internal/app"
	"github.com/tgienger/postit/internal/config"
	"github.com/tgienger/postit/internal/db"
	"github.com/tgienger/postit/internal/logging"
	"github.com/tgienger/postit/internal/storage"
	"github.com/tgienger/postit/internal/store"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// session is everything one command invocation needs, opened in order and
// released by Close.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *db.DB
	svc    *app.Service

	logCloser io.Closer
}

// openSession locks the data directory and loads it. Interactive sessions
// keep logs off the terminal.
func (c *commandContext) openSession(ctx context.Context, interactive bool) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	fileOnly := interactive || !c.verbose()
	logger, logCloser, err := logging.NewFromConfig(cfg, fileOnly)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	database, err := db.Open(cfg.Paths.DataDir)
	if err != nil {
		logCloser.Close()
		if errors.Is(err, db.ErrLocked) {
			return nil, fmt.Errorf("%w; close the other postit window first", err)
		}
		return nil, fmt.Errorf("open data: %w", err)
	}

	st := store.New(store.WithTimeLayout(cfg.Display.TimestampLayout))
	svc := app.New(st, storage.New(database, logger), cfg, logger)

	sess := &session{
		cfg:       cfg,
		logger:    logger,
		db:        database,
		svc:       svc,
		logCloser: logCloser,
	}
	if err := svc.Bootstrap(ctx); err != nil {
		sess.Close()
		return nil, fmt.Errorf("load data: %w", err)
	}
	logger.Debug("session opened", "data_dir", cfg.Paths.DataDir, "interactive", interactive)
	return sess, nil
}

func (s *session) Close() error {
	err := s.db.Close()
	if closeErr := s.logCloser.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// withService runs fn against a freshly opened, non-interactive session.
func (c *commandContext) withService(cmd *cobra.Command, fn func(*app.Service) error) error {
	sess, err := c.openSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(sess.svc)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
