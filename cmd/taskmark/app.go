package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskmark/internal/auth"
	"github.com/sandeepkv93/taskmark/internal/logging"
	"github.com/sandeepkv93/taskmark/internal/storage"
	"github.com/sandeepkv93/taskmark/internal/store"
	"github.com/sandeepkv93/taskmark/internal/update"
)

type globalOptions struct {
	configPath string
	dbPath     string
}

// app bundles the long-lived collaborators shared by the TUI and the
// one-shot subcommands.
type app struct {
	cfg    update.RuntimeConfig
	logger *slog.Logger
	repo   *storage.SQLiteRepository
	closes []func() error
}

func openApp(opts globalOptions) (*app, error) {
	cfg, err := update.LoadRuntimeConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.dbPath) != "" {
		cfg.DBPath = opts.dbPath
	}

	logger, closeLog, err := logging.New(cfg.LogFile, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closes: []func() error{closeLog}}

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	a.repo = repo
	a.closes = append(a.closes, repo.Close)
	logger.Info("taskmark started", "db", cfg.DBPath, "version", Version)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closes) - 1; i >= 0; i-- {
		if err := a.closes[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closes = nil
	return errors.Join(errs...)
}

func runTUI(ctx context.Context, opts globalOptions) error {
	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	session := auth.NewSession(auth.NewDemoAuthenticator(), auth.Options{
		SessionFile: a.cfg.SessionFile,
		AutoLogin:   a.cfg.AutoLogin,
		Logger:      a.logger.With("component", "auth"),
	})
	m := update.NewModelWithConfig(update.Deps{
		Store:   store.New(),
		Session: session,
		Repo:    a.repo,
		Logger:  a.logger.With("component", "ui"),
	}, a.cfg)

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if fm, ok := final.(update.Model); ok {
		fm.FlushWrites()
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
