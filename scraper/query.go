package scraper

import (
	"context"
	"errors"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/emotetcheck/models"
	"github.com/ysmood/gson"
)

// Query submits address on the lookup page and returns the visible text of
// the result element.
//
//  1. Navigate to the site (bounded by NavigationTimeout)
//  2. Type the address into the input field and press Enter
//  3. Wait for the result element to be visible (bounded by ResultTimeout)
//  4. Read its rendered text
//
// Errors are *models.LookupError values; a result that does not appear in
// time is reported as models.ErrTimeout.
func (s *Session) Query(ctx context.Context, address string) (string, error) {
	// ── 1. Navigate ───────────────────────────────────────────────────
	navCtx, navCancel := context.WithTimeout(ctx, s.lookupCfg.NavigationTimeout)
	defer navCancel()

	p := s.page.Context(navCtx)
	if err := p.Navigate(s.lookupCfg.SiteURL); err != nil {
		return "", categorizeError(navCtx, err, models.ErrCodeNavigation, "navigation to lookup site failed")
	}
	if err := p.WaitLoad(); err != nil {
		return "", categorizeError(navCtx, err, models.ErrCodeNavigation, "lookup site did not finish loading")
	}

	// ── 2. Submit ─────────────────────────────────────────────────────
	if err := submit(p, s.lookupCfg.InputSelector, address); err != nil {
		return "", categorizeError(navCtx, err, models.ErrCodeElementMissing, "failed to submit address")
	}

	// ── 3. Wait for the answer ────────────────────────────────────────
	waitCtx, waitCancel := context.WithTimeout(ctx, s.lookupCfg.ResultTimeout)
	defer waitCancel()

	el, err := waitVisible(s.page.Context(waitCtx), s.lookupCfg.ResultSelector)
	if err != nil {
		return "", categorizeError(waitCtx, err, models.ErrCodeElementMissing, "waiting for result")
	}

	// ── 4. Extract ────────────────────────────────────────────────────
	text, err := el.Text()
	if err != nil {
		return "", categorizeError(waitCtx, err, models.ErrCodeElementMissing, "failed to read result text")
	}
	return text, nil
}

// submit types text into the element matching selector and presses Enter.
func submit(p *rod.Page, selector, text string) error {
	field, err := p.Element(selector)
	if err != nil {
		return err
	}
	if err := field.Input(text); err != nil {
		return err
	}
	return field.Type(input.Enter)
}

// waitVisible waits until an element matching selector exists and is visible.
func waitVisible(p *rod.Page, selector string) (*rod.Element, error) {
	el, err := p.Element(selector)
	if err != nil {
		return nil, err
	}
	if err := el.WaitVisible(); err != nil {
		return nil, err
	}
	return el, nil
}

// categorizeError wraps raw rod errors into LookupErrors. An expired step
// deadline becomes a timeout; a cancelled caller context stays a cancellation.
func categorizeError(stepCtx context.Context, err error, code, msg string) *models.LookupError {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(stepCtx.Err(), context.Canceled):
		return models.NewLookupError(code, "lookup canceled", err)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(stepCtx.Err(), context.DeadlineExceeded):
		return models.NewLookupError(models.ErrCodeTimeout, msg, err)
	default:
		return models.NewLookupError(code, msg, err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
