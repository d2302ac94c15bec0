package scraper

import (
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/emotetcheck/config"
	"github.com/use-agent/emotetcheck/models"
)

// Session owns the browser process and the single tab every query runs in.
// It is not safe for concurrent use; queries must be issued one at a time.
type Session struct {
	launcher  *launcher.Launcher
	browser   *rod.Browser
	page      *rod.Page
	router    *rod.HijackRouter
	lookupCfg config.LookupConfig
	closeOnce sync.Once
	closeErr  error
}

// NewSession launches a browser and opens the tab used for lookups.
// On failure every resource acquired so far is released before returning.
func NewSession(browserCfg config.BrowserConfig, lookupCfg config.LookupConfig) (*Session, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.Proxy != "" {
		l = l.Proxy(browserCfg.Proxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewLookupError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Debug("browser launched", "controlURL", controlURL)

	s := &Session{launcher: l, lookupCfg: lookupCfg}

	s.browser = rod.New().ControlURL(controlURL)
	if err := s.browser.Connect(); err != nil {
		s.browser = nil
		_ = s.Close()
		return nil, models.NewLookupError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	s.page, err = s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, models.NewLookupError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}

	if browserCfg.Stealth {
		if _, evalErr := s.page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	if len(browserCfg.Headers) > 0 {
		if hdrErr := (proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(browserCfg.Headers),
		}).Call(s.page); hdrErr != nil {
			slog.Warn("setting extra headers failed", "error", hdrErr)
		}
	}

	s.router = setupHijack(s.page, browserCfg.BlockedResourceTypes)

	slog.Info("browser session ready",
		"headless", browserCfg.Headless,
		"site", lookupCfg.SiteURL,
	)
	return s, nil
}

// Close stops request interception, closes the tab and the browser, and
// kills the browser process. Only the first call does any work; later calls
// return the first call's result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.router != nil {
			_ = s.router.Stop()
		}
		if s.page != nil {
			_ = s.page.Close()
		}
		if s.browser != nil {
			s.closeErr = s.browser.Close()
		}
		s.launcher.Kill()
		s.launcher.Cleanup()
		slog.Debug("browser session closed")
	})
	return s.closeErr
}
