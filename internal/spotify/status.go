package spotify

import (
	"time"

	"github.com/fossabot/mpdify/internal/mpd"
)

// pluginName identifies the upstream type in outputs responses.
const pluginName = "spotify"

// BuildStatus turns the cached snapshot and the play context into a status
// response. Pure: deterministic given its inputs, no side effects.
func BuildStatus(cache *CachedPlayback, context *PlayContext, now time.Time) mpd.HandlerOutput {
	if cache == nil || cache.Data == nil {
		return mpd.Output(mpd.StatusResponse{State: mpd.StateStop})
	}
	data := cache.Data

	state := mpd.StatePause
	if data.Playing {
		state = mpd.StatePlay
	}

	status := mpd.StatusResponse{
		Volume: data.Volume,
		State:  state,
		Random: data.Shuffle,
		Repeat: data.Repeat != RepeatOff,
		Single: data.Repeat == RepeatTrack,
		PlaylistInfo: &mpd.StatusPlaylistInfo{
			PlaylistLength: context.Size(),
			Song:           context.PositionForID(data.itemID()),
		},
	}

	// The durations block is all-or-nothing: only emitted when both the
	// extrapolated elapsed value and the item duration are known.
	if elapsed, ok := cache.ElapsedAt(now); ok && data.Item != nil {
		status.Durations = &mpd.StatusDurations{
			Elapsed:  elapsed,
			Duration: data.Item.Duration,
		}
	}

	return mpd.Output(status)
}

// BuildOutputs maps the device list, in order, to output records.
func BuildOutputs(devices []Device) mpd.HandlerOutput {
	records := make([]mpd.Response, len(devices))
	for pos, device := range devices {
		records[pos] = mpd.OutputsResponse{
			OutputID:      pos,
			OutputName:    device.Name,
			OutputEnabled: device.Active,
			Plugin:        pluginName,
		}
	}
	return mpd.HandlerOutput{Data: records}
}

// BuildCurrentSong answers currentsong from the cached snapshot. A missing
// snapshot or item yields a bare acknowledgement, matching MPD when stopped.
func BuildCurrentSong(cache *CachedPlayback, context *PlayContext) mpd.HandlerOutput {
	if cache == nil || cache.Data == nil || cache.Data.Item == nil {
		return mpd.OutputOK
	}
	item := cache.Data.Item
	return mpd.Output(mpd.SongResponse{
		File:     item.ID,
		Title:    item.Name,
		Artist:   item.Artist,
		Album:    item.Album,
		Duration: item.Duration,
		Pos:      context.PositionForID(cache.Data.itemID()),
	})
}

// BuildPlaylistInfo lists the active context as playlist entries.
func BuildPlaylistInfo(context *PlayContext) mpd.HandlerOutput {
	items := context.Items()
	records := make([]mpd.Response, len(items))
	for pos, item := range items {
		records[pos] = mpd.SongResponse{
			File:     item.ID,
			Title:    item.Name,
			Artist:   item.Artist,
			Album:    item.Album,
			Duration: item.Duration,
			Pos:      pos,
		}
	}
	return mpd.HandlerOutput{Data: records}
}
