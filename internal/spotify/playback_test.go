package spotify

import (
	"testing"
	"time"
)

func snapshot(playing bool, progress time.Duration) *PlaybackState {
	return &PlaybackState{
		Playing:  playing,
		Progress: &progress,
		Item: &PlayingItem{
			ID:       "track1",
			Name:     "Song",
			Duration: 3 * time.Minute,
		},
	}
}

func TestElapsedAt_Paused(t *testing.T) {
	captured := time.Now()
	cache := &CachedPlayback{Data: snapshot(false, 42*time.Second), At: captured}

	// Paused playback never advances, whatever the query instant.
	for _, later := range []time.Duration{0, time.Second, time.Hour} {
		elapsed, ok := cache.ElapsedAt(captured.Add(later))
		if !ok {
			t.Fatal("ElapsedAt() ok = false, want true")
		}
		if elapsed != 42*time.Second {
			t.Errorf("ElapsedAt(+%v) = %v, want 42s", later, elapsed)
		}
	}
}

func TestElapsedAt_Playing(t *testing.T) {
	captured := time.Now()
	cache := &CachedPlayback{Data: snapshot(true, 42*time.Second), At: captured}

	elapsed, ok := cache.ElapsedAt(captured.Add(3 * time.Second))
	if !ok {
		t.Fatal("ElapsedAt() ok = false, want true")
	}
	if elapsed != 45*time.Second {
		t.Errorf("ElapsedAt(+3s) = %v, want 45s", elapsed)
	}
}

func TestElapsedAt_Monotone(t *testing.T) {
	captured := time.Now()
	cache := &CachedPlayback{Data: snapshot(true, 10*time.Second), At: captured}

	prev := time.Duration(-1)
	for step := time.Duration(0); step < 5*time.Second; step += 500 * time.Millisecond {
		elapsed, _ := cache.ElapsedAt(captured.Add(step))
		if elapsed < prev {
			t.Fatalf("elapsed went backwards: %v after %v", elapsed, prev)
		}
		prev = elapsed
	}
}

func TestElapsedAt_NoSnapshot(t *testing.T) {
	if _, ok := (&CachedPlayback{}).ElapsedAt(time.Now()); ok {
		t.Error("ElapsedAt() ok = true for empty cache, want false")
	}

	noProgress := &CachedPlayback{Data: &PlaybackState{Playing: true}, At: time.Now()}
	if _, ok := noProgress.ElapsedAt(time.Now()); ok {
		t.Error("ElapsedAt() ok = true without progress, want false")
	}
}

func TestItemID_Fallback(t *testing.T) {
	var nilState *PlaybackState
	if got := nilState.itemID(); got != "unknown" {
		t.Errorf("itemID() = %q for nil state, want unknown", got)
	}

	adBreak := &PlaybackState{Item: &PlayingItem{Kind: KindAd}}
	if got := adBreak.itemID(); got != "unknown" {
		t.Errorf("itemID() = %q for id-less item, want unknown", got)
	}
}
