package discover

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/user/leadgen-service/internal/entity"
)

// fakeSurface scripts the feed: each scan returns the next batch of
// handles, cumulatively.
type fakeSurface struct {
	batches [][]entity.ListingHandle // batches[i] visible as of scan i (last batch repeats)
	scans   int

	scrollAmounts []int
	loadMoreHits  int
	loadMoreWorks bool

	metrics entity.ScrollMetrics
}

func (f *fakeSurface) ScanHandles(context.Context) ([]entity.ListingHandle, error) {
	i := f.scans
	if i >= len(f.batches) {
		i = len(f.batches) - 1
	}
	f.scans++
	if len(f.batches) == 0 {
		return nil, nil
	}
	return f.batches[i], nil
}

func (f *fakeSurface) Metrics(context.Context) (entity.ScrollMetrics, error) {
	return f.metrics, nil
}

func (f *fakeSurface) Scroll(_ context.Context, amount, count int) error {
	f.scrollAmounts = append(f.scrollAmounts, amount)
	return nil
}

func (f *fakeSurface) ScrollToBottom(context.Context) error { return nil }

func (f *fakeSurface) ClickLoadMore(context.Context) (bool, error) {
	f.loadMoreHits++
	return f.loadMoreWorks, nil
}

func handles(ids ...string) []entity.ListingHandle {
	out := make([]entity.ListingHandle, 0, len(ids))
	for _, id := range ids {
		out = append(out, entity.ListingHandle{ID: id, URL: "https://www.google.com/maps/place/" + id})
	}
	return out
}

func newDiscoverer() *Discoverer {
	d := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.sleep = func(context.Context, time.Duration) {}
	return d
}

func TestDiscoverTargetInFirstScan(t *testing.T) {
	surface := &fakeSurface{batches: [][]entity.ListingHandle{handles("a", "b", "c", "d")}}

	got, err := newDiscoverer().Discover(context.Background(), surface, 3)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d handles, want the result truncated to 3", len(got))
	}
	if len(surface.scrollAmounts) != 0 {
		t.Errorf("scrolled %d times, want 0 when first scan satisfies target", len(surface.scrollAmounts))
	}
}

func TestDiscoverScrollsUntilTarget(t *testing.T) {
	surface := &fakeSurface{batches: [][]entity.ListingHandle{
		handles("a", "b"),
		handles("a", "b", "c"),
		handles("a", "b", "c", "d", "e"),
	}}

	got, err := newDiscoverer().Discover(context.Background(), surface, 5)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d handles, want 5", len(got))
	}
	for i, h := range got {
		for j := i + 1; j < len(got); j++ {
			if h.ID == got[j].ID {
				t.Errorf("duplicate handle ID %q at positions %d and %d", h.ID, i, j)
			}
		}
	}
}

func TestDiscoverScrollAmountsIncrease(t *testing.T) {
	surface := &fakeSurface{batches: [][]entity.ListingHandle{
		handles("a"),
		handles("a", "b"),
		handles("a", "b", "c"),
		handles("a", "b", "c", "d"),
	}}

	if _, err := newDiscoverer().Discover(context.Background(), surface, 4); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(surface.scrollAmounts) < 2 {
		t.Fatalf("expected at least 2 scrolls, got %d", len(surface.scrollAmounts))
	}
	for i := 1; i < len(surface.scrollAmounts); i++ {
		if surface.scrollAmounts[i] <= surface.scrollAmounts[i-1] {
			t.Errorf("scroll amount did not increase: %v", surface.scrollAmounts)
		}
	}
}

func TestDiscoverMicroScrollsNearBottom(t *testing.T) {
	surface := &fakeSurface{
		batches: [][]entity.ListingHandle{handles("a"), handles("a", "b")},
		metrics: entity.ScrollMetrics{Top: 950, ScrollHeight: 1000, ClientHeight: 100},
	}

	if _, err := newDiscoverer().Discover(context.Background(), surface, 2); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(surface.scrollAmounts) == 0 || surface.scrollAmounts[0] != 200 {
		t.Errorf("scrollAmounts = %v, want micro scrolls of 200 near the bottom", surface.scrollAmounts)
	}
}

func TestDiscoverLoadMoreResetsStall(t *testing.T) {
	// Feed stalls at one handle; a working load-more control keeps
	// resetting the stall counter so discovery runs the full budget.
	surface := &fakeSurface{
		batches:       [][]entity.ListingHandle{handles("a")},
		loadMoreWorks: true,
	}

	got, err := newDiscoverer().Discover(context.Background(), surface, 5)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d handles, want 1", len(got))
	}
	if surface.loadMoreHits == 0 {
		t.Error("load-more was never probed")
	}
	if len(surface.scrollAmounts) != maxScrollAttempts {
		t.Errorf("scrolled %d times, want the full budget of %d", len(surface.scrollAmounts), maxScrollAttempts)
	}
}

func TestDiscoverGivesUpOnExhaustedFeed(t *testing.T) {
	surface := &fakeSurface{batches: [][]entity.ListingHandle{handles("a", "b")}}

	got, err := newDiscoverer().Discover(context.Background(), surface, 10)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d handles, want the 2 the feed had", len(got))
	}
	// Six consecutive empty scans, load-more probed from the fourth on.
	if len(surface.scrollAmounts) != stallGiveUpAfter {
		t.Errorf("scrolled %d times, want %d before giving up", len(surface.scrollAmounts), stallGiveUpAfter)
	}
	if surface.loadMoreHits != stallGiveUpAfter-stallProbeAfter+1 {
		t.Errorf("load-more probed %d times, want %d", surface.loadMoreHits, stallGiveUpAfter-stallProbeAfter+1)
	}
}

func TestDiscoverEmptyFeed(t *testing.T) {
	surface := &fakeSurface{batches: [][]entity.ListingHandle{{}}}

	got, err := newDiscoverer().Discover(context.Background(), surface, 5)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d handles from an empty feed, want 0", len(got))
	}
}
