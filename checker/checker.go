// Package checker runs the lookup loop: it opens one browser session, queries
// every address in input order, classifies each answer and writes one record
// per address.
package checker

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/use-agent/emotetcheck/config"
	"github.com/use-agent/emotetcheck/models"
	"github.com/use-agent/emotetcheck/parser"
	"github.com/use-agent/emotetcheck/report"
	"golang.org/x/time/rate"
)

// Session is a lookup client bound to one browser. scraper.Session is the
// production implementation.
type Session interface {
	// Query returns the raw result text for address.
	Query(ctx context.Context, address string) (string, error)

	// Close releases the browser.
	Close() error
}

// Opener acquires a Session.
type Opener func() (Session, error)

// Summary counts what a run did.
type Summary struct {
	Written int // records written
	Found   int // records with a Found outcome
	Failed  int // lookups skipped in lenient mode
	Skipped int // blank lines skipped
}

// Checker processes addresses strictly one at a time.
type Checker struct {
	cfg     config.RunConfig
	out     *report.TSVWriter
	limiter *rate.Limiter
}

// New creates a Checker writing to out.
func New(cfg config.RunConfig, out *report.TSVWriter) *Checker {
	limit := rate.Inf
	if cfg.QueriesPerSecond > 0 {
		limit = rate.Limit(cfg.QueriesPerSecond)
	}
	return &Checker{
		cfg:     cfg,
		out:     out,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Run opens a session, looks up every address and closes the session on
// every exit path, including an input error, a failed lookup and context
// cancellation.
//
// In strict mode (the default) the first failed lookup ends the run and is
// returned. In lenient mode failed lookups are logged and counted, and the
// run goes on; input errors and cancellation still end it.
func (c *Checker) Run(ctx context.Context, open Opener, addrs iter.Seq2[string, error]) (sum Summary, err error) {
	sess, err := open()
	if err != nil {
		return sum, err
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			slog.Warn("closing browser session failed", "error", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	for addr, inErr := range addrs {
		if inErr != nil {
			return sum, inErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sum, ctxErr
		}
		if addr == "" && c.cfg.SkipBlank {
			sum.Skipped++
			continue
		}
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			return sum, waitErr
		}

		rec, lookupErr := c.lookup(ctx, sess, addr)
		if lookupErr != nil {
			if !c.cfg.Lenient || ctx.Err() != nil {
				return sum, lookupErr
			}
			sum.Failed++
			slog.Error("lookup failed, skipping address", "address", addr, "error", lookupErr)
			continue
		}

		if writeErr := c.out.Write(rec); writeErr != nil {
			return sum, fmt.Errorf("writing result for %q: %w", addr, writeErr)
		}
		sum.Written++
		if rec.Outcome.Found {
			sum.Found++
		}
	}

	return sum, nil
}

func (c *Checker) lookup(ctx context.Context, sess Session, addr string) (models.Record, error) {
	start := time.Now()

	raw, err := sess.Query(ctx, addr)
	if err != nil {
		return models.Record{}, models.WithAddress(err, addr)
	}

	outcome, err := parser.Parse(raw)
	if err != nil {
		return models.Record{}, models.WithAddress(err, addr)
	}

	slog.Debug("lookup complete",
		"address", addr,
		"found", outcome.Found,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return models.Record{Address: addr, Outcome: outcome}, nil
}
