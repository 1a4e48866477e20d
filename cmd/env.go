package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/life-desks/internal/config"
	"github.com/Tiliavir/life-desks/internal/desks"
	"github.com/Tiliavir/life-desks/internal/goals"
	"github.com/Tiliavir/life-desks/internal/logging"
	"github.com/Tiliavir/life-desks/internal/storage"
)

// env bundles the loaded configuration and stores for one command run.
type env struct {
	cfg   config.Config
	log   *logrus.Logger
	goals *goals.Store
	desks *desks.Store
	close func() error
}

// openEnv resolves the data directory, loads config, opens the configured
// backend and rehydrates the goal and desk stores.
func openEnv() (*env, error) {
	base := dataDirFlag
	if base == "" {
		var err error
		base, err = storage.BaseDir()
		if err != nil {
			return nil, storageError(err)
		}
	}

	cfg, cfgErr := config.Load(base)
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", cfgErr)
	}

	level := cfg.LogLevel
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	log, err := logging.New(level, os.Stderr)
	if err != nil {
		log.WithError(err).Warn("Falling back to warn level")
	}

	kv, closeFn, err := storage.Open(cfg.Storage.Backend, base, cfg.Storage.SQLitePath)
	if err != nil {
		return nil, storageError(err)
	}

	opts := []goals.Option{goals.WithLogger(log)}
	if cfg.DemoData {
		opts = append(opts, goals.WithSeed(goals.DemoGoals()))
	}
	gs := goals.New(kv, opts...)
	if err := gs.Load(); err != nil {
		_ = closeFn()
		return nil, storageError(err)
	}

	ds := desks.New(kv, desks.WithLogger(log))
	if err := ds.Load(); err != nil {
		_ = closeFn()
		return nil, storageError(err)
	}

	log.WithFields(logrus.Fields{
		"data_dir": base,
		"backend":  cfg.Storage.Backend,
	}).Debug("Environment ready")

	return &env{cfg: cfg, log: log, goals: gs, desks: ds, close: closeFn}, nil
}

// withEnv opens the environment, runs fn and closes the backend.
func withEnv(fn func(e *env) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer func() {
		if err := e.close(); err != nil {
			e.log.WithError(err).Warn("Failed to close storage")
		}
	}()
	return fn(e)
}
