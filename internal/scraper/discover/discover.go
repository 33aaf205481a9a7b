// Package discover collects unique listing handles from the results feed.
// The feed lazy-loads on scroll, so discovery is a state machine that
// alternates scanning and scrolling, probes a load-more control when the
// feed stalls, and gives up once it is convinced no further results exist.
package discover

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/leadgen-service/internal/entity"
)

// Surface is the scrollable results feed. Implementations wrap a live
// browser tab; tests use a fake.
type Surface interface {
	// ScanHandles returns every listing link currently rendered in the feed.
	ScanHandles(ctx context.Context) ([]entity.ListingHandle, error)
	// Metrics reports the feed's current scroll position.
	Metrics(ctx context.Context) (entity.ScrollMetrics, error)
	// Scroll wheels the feed down by amount pixels, repeating count times.
	Scroll(ctx context.Context, amount, count int) error
	// ScrollToBottom jumps the feed to its current scroll extent to
	// trigger lazy loading.
	ScrollToBottom(ctx context.Context) error
	// ClickLoadMore presses a load-more control if one is present.
	ClickLoadMore(ctx context.Context) (bool, error)
}

type state int

const (
	stateScanning state = iota
	stateScrolling
	stateStalled
	stateRecovering
	stateDone
)

func (s state) String() string {
	switch s {
	case stateScanning:
		return "scanning"
	case stateScrolling:
		return "scrolling"
	case stateStalled:
		return "stalled"
	case stateRecovering:
		return "recovering"
	default:
		return "done"
	}
}

const (
	maxScrollAttempts  = 20
	stallProbeAfter    = 4 // consecutive empty scans before trying load-more
	stallGiveUpAfter   = 6 // consecutive empty scans before giving up
	baseScrollAmount   = 300
	scrollAmountStep   = 50
	normalScrollCount  = 3
	microScrollAmount  = 200
	microScrollCount   = 10
	baseSettleWait     = 2 * time.Second
	settleWaitStep     = 500 * time.Millisecond
)

type Discoverer struct {
	log   *slog.Logger
	sleep func(context.Context, time.Duration)
}

func New(log *slog.Logger) *Discoverer {
	return &Discoverer{log: log, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Discover scans and scrolls the feed until at least target unique handles
// are collected, the attempt budget runs out, or the feed is exhausted.
// The result is truncated to target; an exhausted or stalled feed yields
// fewer. Handles gathered so far are returned even on error.
func (d *Discoverer) Discover(ctx context.Context, surface Surface, target int) ([]entity.ListingHandle, error) {
	var (
		handles []entity.ListingHandle
		seen    = map[string]struct{}{}
		stalls  = 0
		st      = stateScanning
	)

	merge := func(scanned []entity.ListingHandle) int {
		added := 0
		for _, h := range scanned {
			if h.ID == "" {
				continue
			}
			if _, dup := seen[h.ID]; dup {
				continue
			}
			seen[h.ID] = struct{}{}
			handles = append(handles, h)
			added++
		}
		return added
	}

	scanned, err := surface.ScanHandles(ctx)
	if err != nil {
		return handles, err
	}
	merge(scanned)
	if len(handles) >= target {
		return handles[:target], nil
	}

	st = stateScrolling
	for attempt := 0; attempt < maxScrollAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return handles, err
		}

		d.log.Debug("scroll attempt",
			"attempt", attempt+1, "state", st.String(),
			"collected", len(handles), "target", target)

		if err := d.scrollOnce(ctx, surface, attempt); err != nil {
			d.log.Warn("scroll failed, continuing", "error", err)
		}
		d.sleep(ctx, baseSettleWait+time.Duration(attempt)*settleWaitStep)
		if err := surface.ScrollToBottom(ctx); err != nil {
			d.log.Debug("scroll to bottom failed", "error", err)
		}

		scanned, err := surface.ScanHandles(ctx)
		if err != nil {
			d.log.Warn("rescan failed, continuing", "error", err)
			continue
		}

		if added := merge(scanned); added > 0 {
			stalls = 0
			st = stateScrolling
			d.log.Debug("new listings found", "added", added, "total", len(handles))
			if len(handles) >= target {
				return handles[:target], nil
			}
			continue
		}

		stalls++
		st = stateStalled
		if stalls < stallProbeAfter {
			continue
		}

		st = stateRecovering
		clicked, err := surface.ClickLoadMore(ctx)
		if err != nil {
			d.log.Debug("load-more probe failed", "error", err)
		}
		if clicked {
			d.log.Debug("load-more control clicked")
			stalls = 0
			st = stateScrolling
			continue
		}
		if stalls >= stallGiveUpAfter {
			d.log.Info("feed exhausted before reaching target",
				"collected", len(handles), "target", target)
			break
		}
	}

	st = stateDone
	d.log.Debug("discovery finished", "state", st.String(), "collected", len(handles))
	return handles, nil
}

// scrollOnce wheels the feed down. Near the bottom it switches to many
// small scrolls, which nudges the lazy loader more reliably than one big
// jump; otherwise the scroll amount grows with each attempt.
func (d *Discoverer) scrollOnce(ctx context.Context, surface Surface, attempt int) error {
	metrics, err := surface.Metrics(ctx)
	if err != nil {
		return err
	}
	if metrics.NearBottom() {
		return surface.Scroll(ctx, microScrollAmount, microScrollCount)
	}
	return surface.Scroll(ctx, baseScrollAmount+attempt*scrollAmountStep, normalScrollCount)
}
