// Package spotify bridges the MPD-facing protocol model to the Spotify Web
// API: it owns the dispatcher actor, the playback cache the watcher keeps
// fresh, and the play-context tracker mapping Spotify ids to playlist
// positions.
package spotify

import "time"

// RepeatMode mirrors Spotify's repeat_state field.
type RepeatMode string

const (
	RepeatOff     RepeatMode = "off"
	RepeatTrack   RepeatMode = "track"
	RepeatContext RepeatMode = "context"
)

// ItemKind classifies what Spotify is currently playing.
type ItemKind int

const (
	KindTrack ItemKind = iota
	KindEpisode
	KindAd
	KindUnknown
)

// PlayingItem is the track or episode the upstream reports as current.
// ID may be empty (ads and local files carry none).
type PlayingItem struct {
	ID       string
	Kind     ItemKind
	Name     string
	Artist   string
	Album    string
	Duration time.Duration
}

// DeviceRef identifies the device playback happens on.
type DeviceRef struct {
	ID   string
	Name string
}

// PlaybackState is one point-in-time read of Spotify's playback. A nil
// *PlaybackState means nothing is playing on any device.
type PlaybackState struct {
	Item       *PlayingItem
	Playing    bool
	Volume     *int
	Shuffle    bool
	Repeat     RepeatMode
	Progress   *time.Duration
	Device     DeviceRef
	ContextURI string
}

// CachedPlayback wraps the last fetched snapshot with its capture instant.
// Owned exclusively by the dispatcher actor; the pointer handed out to
// builders is read-only and replaced, never mutated, on update.
type CachedPlayback struct {
	Data *PlaybackState
	At   time.Time
}

// ElapsedAt derives the playback position at the given instant. While playing
// the captured progress is extrapolated by the time since capture; while
// paused it is returned as captured. ok is false when there is no snapshot or
// the snapshot carries no progress.
func (c *CachedPlayback) ElapsedAt(now time.Time) (elapsed time.Duration, ok bool) {
	if c == nil || c.Data == nil || c.Data.Progress == nil {
		return 0, false
	}
	elapsed = *c.Data.Progress
	if c.Data.Playing {
		elapsed += now.Sub(c.At)
	}
	return elapsed, true
}

// Elapsed is ElapsedAt against the wall clock.
func (c *CachedPlayback) Elapsed() (time.Duration, bool) {
	return c.ElapsedAt(time.Now())
}

// itemID returns the current item's id, or "unknown" when the item carries
// none. The fallback never matches a tracked context id, so position lookups
// land on the position-0 fallback.
func (s *PlaybackState) itemID() string {
	if s == nil || s.Item == nil || s.Item.ID == "" {
		return "unknown"
	}
	return s.Item.ID
}
