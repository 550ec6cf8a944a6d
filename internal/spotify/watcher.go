package spotify

import (
	"context"
	"log"

	"github.com/fossabot/mpdify/internal/mpd"
)

// diff compares two snapshots field by field and returns the idle subsystems
// the transition touches, in a stable order and each at most once. Context
// changes are detected separately, on the context URI.
func diff(prev, next *PlaybackState) []mpd.IdleSubsystem {
	if prev == nil && next == nil {
		return nil
	}
	var changed []mpd.IdleSubsystem

	if playingOf(prev) != playingOf(next) || prev.itemID() != next.itemID() {
		changed = append(changed, mpd.SubsystemPlayer)
	}
	if shuffleOf(prev) != shuffleOf(next) || repeatOf(prev) != repeatOf(next) {
		changed = append(changed, mpd.SubsystemOptions)
	}
	if deviceOf(prev) != deviceOf(next) {
		changed = append(changed, mpd.SubsystemOutput)
	}
	if volumeOf(prev) != volumeOf(next) {
		changed = append(changed, mpd.SubsystemMixer)
	}
	return changed
}

func playingOf(s *PlaybackState) bool {
	return s != nil && s.Playing
}

func shuffleOf(s *PlaybackState) bool {
	return s != nil && s.Shuffle
}

func repeatOf(s *PlaybackState) RepeatMode {
	if s == nil {
		return RepeatOff
	}
	return s.Repeat
}

func deviceOf(s *PlaybackState) string {
	if s == nil {
		return ""
	}
	return s.Device.ID
}

func volumeOf(s *PlaybackState) int {
	if s == nil || s.Volume == nil {
		return -1
	}
	return *s.Volume
}

func contextURIOf(s *PlaybackState) string {
	if s == nil {
		return ""
	}
	return s.ContextURI
}

// poll is one watcher cycle, run inside the actor's turn. A fetch failure is
// logged and the previous cache stays authoritative until the next success.
func (h *Handler) poll(ctx context.Context) {
	if h.client == nil {
		return
	}
	state, err := h.client.CurrentPlayback(ctx)
	if err != nil {
		log.Printf("watcher: playback fetch failed: %v", err)
		return
	}
	h.update(ctx, state)
}

// update swaps the cache for the new snapshot, rebuilds the play context when
// the context URI moved, and publishes one notification per changed category.
// The cache is replaced even on an empty diff so the capture instant always
// advances and elapsed extrapolation stays accurate.
func (h *Handler) update(ctx context.Context, state *PlaybackState) {
	prev := h.cache.Data
	h.cache = &CachedPlayback{Data: state, At: h.now()}

	changed := diff(prev, state)

	if uri := contextURIOf(state); uri != "" && uri != h.contextURI {
		if items, err := h.client.ContextItems(ctx, uri); err != nil {
			log.Printf("watcher: context fetch failed: %v", err)
		} else {
			h.contextURI = uri
			h.context = NewPlayContext(items)
			changed = append(changed, mpd.SubsystemPlaylist)
		}
	}

	for _, subsystem := range changed {
		h.bus.Notify(subsystem)
	}
}
