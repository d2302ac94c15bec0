// Command emotetcheck looks up email addresses on haveibeenemotet.com and
// prints, per address, whether it appeared in leaked Emotet spam corpora and
// how often as real sender, fake sender and recipient.
//
// Usage:
//
//	emotetcheck [file ...] < addresses.txt
//
// Addresses are read from the named files in order, or from standard input
// when no file is given ("-" also means standard input). Output is one
// tab-separated line per address. Settings come from EMOTETCHECK_* environment
// variables, optionally through a .env file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/use-agent/emotetcheck/checker"
	"github.com/use-agent/emotetcheck/config"
	"github.com/use-agent/emotetcheck/input"
	"github.com/use-agent/emotetcheck/report"
	"github.com/use-agent/emotetcheck/scraper"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, openBrowser))
}

// run is main without the process exit, so the exit status is testable.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, open func(*config.Config) checker.Opener) int {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log, stderr)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "emotetcheck:", err)
		return 1
	}

	// ── 3. Cancel on SIGINT/SIGTERM so the browser is still closed ──
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 4. Run the lookup loop ──────────────────────────────────────
	ck := checker.New(cfg.Run, report.NewTSVWriter(stdout))
	sum, err := ck.Run(ctx, open(cfg), input.Lines(stdin, args))

	slog.Info("emotetcheck finished",
		"written", sum.Written,
		"found", sum.Found,
		"failed", sum.Failed,
		"skipped", sum.Skipped,
	)

	if err != nil {
		fmt.Fprintln(stderr, "emotetcheck:", err)
		return 1
	}
	if sum.Failed > 0 {
		return 1
	}
	return 0
}

// openBrowser returns the production Opener backed by a Rod browser.
func openBrowser(cfg *config.Config) checker.Opener {
	return func() (checker.Session, error) {
		s, err := scraper.NewSession(cfg.Browser, cfg.Lookup)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// initLogger configures slog based on the LogConfig. Logs go to w, never to
// stdout, which carries the results.
func initLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
