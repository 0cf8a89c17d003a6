package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/geocoder89/eventdesk/internal/catalog"
	"github.com/geocoder89/eventdesk/internal/config"
	"github.com/geocoder89/eventdesk/internal/console"
	"github.com/geocoder89/eventdesk/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
	"golang.org/x/text/language"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// logs go to stderr, the menu owns stdout
	log := observability.NewLogger(cfg.Env, os.Stderr)

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	tag, err := language.Parse(cfg.CollationLang)
	if err != nil {
		log.Warn("unknown collation language, using pl", "lang", cfg.CollationLang, "err", err)
		tag = language.Polish
	}

	cat := catalog.New(log, prom, catalog.WithCollation(tag))

	con := console.New(cat, os.Stdin, os.Stdout,
		console.WithDataFile(cfg.EventsFile),
		console.WithLogger(log),
		console.WithInteractive(term.IsTerminal(int(os.Stdin.Fd()))),
	)

	if cfg.Autoload {
		con.Preload()
	}

	log.Debug("console starting", "env", cfg.Env, "file", cfg.EventsFile, "events", cat.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := con.Run(ctx)

	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		log.Info("interrupted, catalog saved")
		runErr = nil
	default:
		log.Error("console stopped", "err", runErr)
	}

	if cfg.MetricsFile != "" {
		if err := prom.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error("could not write metrics", "path", cfg.MetricsFile, "err", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}
