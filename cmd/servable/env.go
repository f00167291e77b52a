package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/delaneyj/servable/internal/config"
	"github.com/delaneyj/servable/internal/logging"
	"github.com/delaneyj/servable/prefs"
	"github.com/delaneyj/servable/prefs/sqlitestore"
	"github.com/urfave/cli/v3"
)

// env is what every command needs: configuration, a logger and the
// configured preference store.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  prefs.Store
	out    io.Writer
	close  func() error
}

func setup(cmd *cli.Command) (*env, error) {
	cfg, err := config.Load(cmd.String(configKey))
	if err != nil {
		return nil, err
	}

	root := cmd.Root()
	errOut, out := root.ErrWriter, root.Writer
	if errOut == nil {
		errOut = os.Stderr
	}
	if out == nil {
		out = os.Stdout
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, errOut)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	store, closer, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "backend", cfg.Backend, "path", cfg.PrefsFile())
	return &env{cfg: cfg, logger: logger, store: store, out: out, close: closer}, nil
}

func openStore(cfg *config.Config) (prefs.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendMemory:
		return prefs.NewFlatStore(prefs.NewMemoryFlat()), noop, nil
	case config.BackendSQLite:
		path := cfg.PrefsFile()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create store directory: %w", err)
		}
		s, err := sqlitestore.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return prefs.OpenJSONFile(cfg.PrefsFile(), ""), noop, nil
	}
}
