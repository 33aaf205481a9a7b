package session

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

	"github.com/user/leadgen-service/internal/entity"
)

// scanScript collects every listing link currently rendered in the feed.
// The detail-view path segment doubles as a stable per-run identifier.
const scanScript = `(() => {
	const selectors = [
		'div[role="main"] a[href*="/maps/place/"]',
		'[role="feed"] a[href*="/maps/place/"]',
		'a[href*="/maps/place/"]',
	];
	const seen = {};
	const out = [];
	for (const sel of selectors) {
		for (const a of document.querySelectorAll(sel)) {
			const href = a.href || '';
			if (!href.includes('/maps/place/')) continue;
			const id = href.split('/maps/place/')[1].split('/')[0].split('?')[0];
			if (!id || seen[id]) continue;
			seen[id] = true;
			const label = (a.getAttribute('aria-label') || a.innerText || '').trim();
			out.push({id: id, url: href, label: label.slice(0, 80)});
		}
	}
	return out;
})()`

const feedMetricsScript = `(() => {
	const feed = document.querySelector('[role="feed"]') || document.querySelector('div[role="main"]');
	if (!feed) return {top: 0, scrollHeight: 0, clientHeight: 0};
	return {top: feed.scrollTop, scrollHeight: feed.scrollHeight, clientHeight: feed.clientHeight};
})()`

const feedCenterScript = `(() => {
	const feed = document.querySelector('[role="feed"]') || document.querySelector('div[role="main"]');
	if (!feed) return {x: 0, y: 0};
	const rect = feed.getBoundingClientRect();
	return {x: rect.x + rect.width / 2, y: rect.y + rect.height / 2};
})()`

const scrollToBottomScript = `(() => {
	const feed = document.querySelector('[role="feed"]') || document.querySelector('div[role="main"]');
	if (feed) feed.scrollTop = feed.scrollHeight;
	return true;
})()`

var loadMoreSelectors = []string{
	`//button[contains(., "Más resultados")]`,
	`//button[contains(., "Ver más")]`,
	`//button[contains(., "Load more")]`,
	`//button[contains(., "Show more")]`,
	`//button[contains(., "Cargar más")]`,
	`[aria-label*="more"]`,
	`[aria-label*="más"]`,
}

// FeedSurface adapts the live results feed to the discovery layer.
type FeedSurface struct {
	c *Controller
}

func (s *FeedSurface) ScanHandles(ctx context.Context) ([]entity.ListingHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var handles []entity.ListingHandle
	if err := s.c.run(s.c.cfg.OperationTimeout,
		chromedp.Evaluate(scanScript, &handles),
	); err != nil {
		return nil, fmt.Errorf("scan feed: %w", err)
	}
	return handles, nil
}

func (s *FeedSurface) Metrics(ctx context.Context) (entity.ScrollMetrics, error) {
	if err := ctx.Err(); err != nil {
		return entity.ScrollMetrics{}, err
	}
	var m entity.ScrollMetrics
	if err := s.c.run(s.c.cfg.OperationTimeout,
		chromedp.Evaluate(feedMetricsScript, &m),
	); err != nil {
		return entity.ScrollMetrics{}, fmt.Errorf("read feed metrics: %w", err)
	}
	return m, nil
}

// Scroll dispatches mouse wheel events at the feed's center. Wheel input
// reaches the lazy loader where synthetic scrollBy calls often do not.
func (s *FeedSurface) Scroll(ctx context.Context, amount, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var center struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := s.c.run(s.c.cfg.OperationTimeout,
		chromedp.Evaluate(feedCenterScript, &center),
	); err != nil {
		return fmt.Errorf("locate feed: %w", err)
	}
	if center.X == 0 && center.Y == 0 {
		return fmt.Errorf("feed element not found")
	}

	actions := make([]chromedp.Action, 0, count)
	for i := 0; i < count; i++ {
		actions = append(actions, wheelAction(center.X, center.Y, float64(amount)))
	}
	if err := s.c.run(s.c.cfg.OperationTimeout, actions...); err != nil {
		return fmt.Errorf("wheel scroll: %w", err)
	}
	return nil
}

func (s *FeedSurface) ScrollToBottom(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var ok bool
	if err := s.c.run(s.c.cfg.OperationTimeout,
		chromedp.Evaluate(scrollToBottomScript, &ok),
	); err != nil {
		return fmt.Errorf("scroll to bottom: %w", err)
	}
	return nil
}

func (s *FeedSurface) ClickLoadMore(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for _, sel := range loadMoreSelectors {
		var nodes []*cdp.Node
		if err := s.c.run(s.c.cfg.OperationTimeout,
			chromedp.Nodes(sel, &nodes, byFor(sel), chromedp.AtLeast(0)),
		); err != nil || len(nodes) == 0 {
			continue
		}
		if err := s.c.run(s.c.cfg.OperationTimeout,
			chromedp.MouseClickNode(nodes[0]),
			chromedp.Sleep(s.c.cfg.OperationTimeout/4),
		); err != nil {
			continue
		}
		return true, nil
	}
	return false, nil
}

func wheelAction(x, y, deltaY float64) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseWheel, x, y).
			WithDeltaX(0).
			WithDeltaY(deltaY).
			Do(ctx)
	})
}
