// Package session drives the live browser tab for one scraping run. The
// Controller owns the chromedp contexts and exposes navigation primitives;
// the feed surface and detail view adapters in this package plug the tab
// into the discovery and extraction layers.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/user/leadgen-service/internal/entity"
)

var (
	// ErrNoSearchSurface means the maps page never presented a usable
	// search box or results container. Nothing can be scraped; the run
	// must abort.
	ErrNoSearchSurface = errors.New("no search surface available")
	// ErrNavigationFailed marks a listing that could not be opened.
	ErrNavigationFailed = errors.New("listing navigation failed")
)

const mapsURL = "https://www.google.com/maps"

type Config struct {
	Headless         bool
	UserAgent        string
	PageLoadTimeout  time.Duration
	OperationTimeout time.Duration
}

// Controller owns the browser for the lifetime of one run. It is not safe
// for concurrent use; a run drives its session from a single goroutine.
type Controller struct {
	cfg    Config
	log    *slog.Logger
	tab    context.Context
	cancel []context.CancelFunc
}

func NewController(cfg Config, log *slog.Logger) *Controller {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", "es-AR"),
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tab, tabCancel := chromedp.NewContext(allocCtx)

	return &Controller{
		cfg:    cfg,
		log:    log,
		tab:    tab,
		cancel: []context.CancelFunc{tabCancel, allocCancel},
	}
}

func (c *Controller) Close() {
	for _, cancel := range c.cancel {
		cancel()
	}
}

// Selector lists tried in order when opening the search surface. The page
// varies by locale and experiment bucket, so each concern has fallbacks.
var (
	consentSelectors = []string{
		`//button[contains(., "Accept all")]`,
		`//button[contains(., "Aceptar todo")]`,
		`//button[contains(., "I agree")]`,
		`//button[contains(., "Acepto")]`,
		`[aria-label*="Accept"]`,
		`[aria-label*="Aceptar"]`,
	}
	dismissSelectors = []string{
		`button[aria-label*="Dismiss"]`,
		`button[aria-label*="Close"]`,
		`button[aria-label*="Cerrar"]`,
		`[data-value="dismiss"]`,
		`//button[contains(., "Not now")]`,
		`//button[contains(., "Ahora no")]`,
	}
	searchBoxSelectors = []string{
		`input#searchboxinput`,
		`input[name="q"]`,
		`input[placeholder*="Search"]`,
		`input[placeholder*="Buscar"]`,
	}
	resultsSelectors = []string{
		`[role="feed"]`,
		`[role="main"]`,
		`[aria-label*="Results"]`,
		`[aria-label*="Resultados"]`,
	}
)

// Open navigates to the maps page, clears consent and promo dialogs, and
// submits the search query. It returns ErrNoSearchSurface when no search
// box or results container ever appears.
func (c *Controller) Open(ctx context.Context, query string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.log.Info("opening search surface", "query", query)
	if err := c.run(c.cfg.PageLoadTimeout,
		chromedp.Navigate(mapsURL),
		chromedp.WaitReady("body"),
	); err != nil {
		return fmt.Errorf("navigate to maps: %w", err)
	}

	// Consent and promo dialogs are best-effort: absent on most sessions,
	// fatal to none.
	c.clickFirstPresent(consentSelectors)
	c.clickFirstPresent(dismissSelectors)

	searchBox := c.firstPresent(searchBoxSelectors)
	if searchBox == "" {
		return fmt.Errorf("search box not found: %w", ErrNoSearchSurface)
	}

	if err := c.run(c.cfg.OperationTimeout,
		chromedp.Click(searchBox, byFor(searchBox)),
		chromedp.SetValue(searchBox, "", byFor(searchBox)),
		chromedp.SendKeys(searchBox, query+kb.Enter, byFor(searchBox)),
	); err != nil {
		return fmt.Errorf("submit query: %w", err)
	}

	if !c.waitAnyVisible(resultsSelectors, c.cfg.PageLoadTimeout) {
		return fmt.Errorf("results container not found: %w", ErrNoSearchSurface)
	}
	c.log.Info("search surface ready", "query", query)
	return nil
}

// GoToListing opens one listing's detail view by navigating to its URL.
func (c *Controller) GoToListing(ctx context.Context, handle entity.ListingHandle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.run(c.cfg.PageLoadTimeout,
		chromedp.Navigate(handle.URL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(time.Second),
	); err != nil {
		return fmt.Errorf("open listing %s: %w: %s", handle.ID, ErrNavigationFailed, err)
	}
	return nil
}

// ReturnToResults goes back to the results feed after a detail view.
func (c *Controller) ReturnToResults(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.run(c.cfg.PageLoadTimeout,
		chromedp.NavigateBack(),
		chromedp.WaitVisible(`[role="main"]`),
	); err != nil {
		return fmt.Errorf("return to results: %w", err)
	}
	return nil
}

// RecoverToResults re-enters the results feed from scratch via the search
// URL. Used when back-navigation has left the tab in an unknown state.
func (c *Controller) RecoverToResults(ctx context.Context, query string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := mapsURL + "/search/" + url.PathEscape(query)
	if err := c.run(c.cfg.PageLoadTimeout,
		chromedp.Navigate(target),
		chromedp.WaitVisible(`[role="main"]`),
	); err != nil {
		return fmt.Errorf("recover to results: %w", err)
	}
	return nil
}

// Surface returns the scrollable feed adapter bound to this session's tab.
func (c *Controller) Surface() *FeedSurface {
	return &FeedSurface{c: c}
}

// DetailView returns the detail panel adapter bound to this session's tab.
func (c *Controller) DetailView() *DetailView {
	return &DetailView{c: c}
}

// run executes chromedp actions against the session tab under a timeout.
func (c *Controller) run(timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(c.tab, timeout)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

// firstPresent returns the first selector that matches at least one node.
func (c *Controller) firstPresent(selectors []string) string {
	for _, sel := range selectors {
		var nodes []*cdp.Node
		if err := c.run(2*time.Second,
			chromedp.Nodes(sel, &nodes, byFor(sel), chromedp.AtLeast(0)),
		); err != nil {
			continue
		}
		if len(nodes) > 0 {
			return sel
		}
	}
	return ""
}

// clickFirstPresent clicks the first matching selector, ignoring failures.
func (c *Controller) clickFirstPresent(selectors []string) {
	sel := c.firstPresent(selectors)
	if sel == "" {
		return
	}
	if err := c.run(5*time.Second,
		chromedp.Click(sel, byFor(sel)),
		chromedp.Sleep(time.Second),
	); err != nil {
		c.log.Debug("dialog click failed", "selector", sel, "error", err)
	}
}

func (c *Controller) waitAnyVisible(selectors []string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		for _, sel := range selectors {
			if err := c.run(5*time.Second, chromedp.WaitVisible(sel, byFor(sel))); err == nil {
				return true
			}
		}
		if time.Now().After(deadline) {
			return false
		}
	}
}

// byFor picks the chromedp selector mode: XPath for "//" selectors, CSS
// otherwise.
func byFor(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "//") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}
