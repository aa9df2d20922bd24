package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chady-robot/chady/pkg/logging"
	"github.com/chady-robot/chady/pkg/robot"
)

// app bundles what every subcommand needs: configuration, logger and
// service client.
type app struct {
	cfg    *robot.Config
	client *robot.Client
	logger *slog.Logger
	closer io.Closer
}

func loadConfig() (*robot.Config, error) {
	if !robot.ConfigExists(opts.Config) {
		return nil, fmt.Errorf("no configuration found at %s, run 'chady setup' first", opts.Config)
	}
	return robot.LoadConfigFrom(opts.Config)
}

func logLevel(cfg *robot.Config) (slog.Level, error) {
	if opts.Verbose {
		return slog.LevelDebug, nil
	}
	return logging.ParseLevel(cfg.LogLevel)
}

// newApp loads the configuration and builds the client. Records go to
// handler, or to stderr as text when handler is nil, and also to the
// configured log file.
func newApp(handler slog.Handler) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level, err := logLevel(cfg)
	if err != nil {
		return nil, err
	}

	if handler == nil {
		handler = logging.NewHandler(os.Stderr, level)
	}
	var closer io.Closer = io.NopCloser(nil)
	if cfg.LogFile != "" {
		fileHandler, f, err := logging.OpenFile(cfg.LogFile, level)
		if err != nil {
			return nil, err
		}
		handler = logging.Tee{handler, fileHandler}
		closer = f
	}
	logger := slog.New(handler)

	client, err := robot.NewClient(cfg.Server, robot.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		closer.Close()
		return nil, err
	}

	logger.Debug("configuration loaded", "file", opts.Config, "server", client.BaseURL())
	return &app{cfg: cfg, client: client, logger: logger, closer: closer}, nil
}

func (a *app) Close() error {
	return a.closer.Close()
}
