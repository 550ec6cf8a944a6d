package spotify

import (
	"context"
	"fmt"
	"strings"
	"time"

	api "github.com/zmb3/spotify/v2"
)

// Device is one playback device known to Spotify.
type Device struct {
	ID     string
	Name   string
	Type   string
	Active bool
	Volume int
}

// Client is the upstream collaborator: everything the dispatcher and watcher
// need from Spotify. Implemented over the Web API below; tests substitute a
// fake.
type Client interface {
	// CurrentPlayback returns the playback snapshot, or nil when nothing is
	// playing on any device.
	CurrentPlayback(ctx context.Context) (*PlaybackState, error)
	Devices(ctx context.Context) ([]Device, error)
	// ContextItems lists the ordered items of a context URI
	// (spotify:playlist:... or spotify:album:...). Unknown context kinds
	// yield an empty list.
	ContextItems(ctx context.Context, uri string) ([]ContextItem, error)

	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	SeekTo(ctx context.Context, pos time.Duration) error
	SetShuffle(ctx context.Context, on bool) error
	SetRepeat(ctx context.Context, mode RepeatMode) error
	SetVolume(ctx context.Context, volume int) error
}

type webClient struct {
	api *api.Client
}

// NewClient wraps an authenticated Web API client.
func NewClient(c *api.Client) Client {
	return &webClient{api: c}
}

func (c *webClient) CurrentPlayback(ctx context.Context) (*PlaybackState, error) {
	state, err := c.api.PlayerState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get playback state: %w", err)
	}
	if state == nil || (state.Item == nil && !state.Playing && state.Device.ID == "") {
		// No active device, nothing playing.
		return nil, nil
	}

	progress := time.Duration(state.Progress) * time.Millisecond
	volume := int(state.Device.Volume)
	out := &PlaybackState{
		Playing:    state.Playing,
		Volume:     &volume,
		Shuffle:    state.ShuffleState,
		Repeat:     parseRepeat(state.RepeatState),
		Progress:   &progress,
		Device:     DeviceRef{ID: state.Device.ID.String(), Name: state.Device.Name},
		ContextURI: string(state.PlaybackContext.URI),
	}

	if track := state.Item; track != nil {
		out.Item = &PlayingItem{
			ID:       track.ID.String(),
			Kind:     KindTrack,
			Name:     track.Name,
			Artist:   joinArtists(track.Artists),
			Album:    track.Album.Name,
			Duration: time.Duration(track.Duration) * time.Millisecond,
		}
	}
	return out, nil
}

func (c *webClient) Devices(ctx context.Context) ([]Device, error) {
	devices, err := c.api.PlayerDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}
	result := make([]Device, len(devices))
	for i, d := range devices {
		result[i] = Device{
			ID:     d.ID.String(),
			Name:   d.Name,
			Type:   d.Type,
			Active: d.Active,
			Volume: int(d.Volume),
		}
	}
	return result, nil
}

func (c *webClient) ContextItems(ctx context.Context, uri string) ([]ContextItem, error) {
	kind, id, ok := splitContextURI(uri)
	if !ok {
		return nil, nil
	}
	switch kind {
	case "playlist":
		return c.playlistItems(ctx, api.ID(id))
	case "album":
		return c.albumItems(ctx, api.ID(id))
	}
	return nil, nil
}

func (c *webClient) playlistItems(ctx context.Context, id api.ID) ([]ContextItem, error) {
	page, err := c.api.GetPlaylistItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}
	var items []ContextItem
	for {
		for _, it := range page.Items {
			track := it.Track.Track
			if track == nil {
				continue
			}
			items = append(items, ContextItem{
				ID:       track.ID.String(),
				Name:     track.Name,
				Artist:   joinArtists(track.Artists),
				Album:    track.Album.Name,
				Duration: time.Duration(track.Duration) * time.Millisecond,
			})
		}
		if err := c.api.NextPage(ctx, page); err != nil {
			if err == api.ErrNoMorePages {
				return items, nil
			}
			return nil, fmt.Errorf("failed to page playlist items: %w", err)
		}
	}
}

func (c *webClient) albumItems(ctx context.Context, id api.ID) ([]ContextItem, error) {
	album, err := c.api.GetAlbum(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	page := &album.Tracks
	var items []ContextItem
	for {
		for _, track := range page.Tracks {
			items = append(items, ContextItem{
				ID:       track.ID.String(),
				Name:     track.Name,
				Artist:   joinArtists(track.Artists),
				Album:    album.Name,
				Duration: time.Duration(track.Duration) * time.Millisecond,
			})
		}
		if err := c.api.NextPage(ctx, page); err != nil {
			if err == api.ErrNoMorePages {
				return items, nil
			}
			return nil, fmt.Errorf("failed to page album tracks: %w", err)
		}
	}
}

func (c *webClient) Play(ctx context.Context) error {
	if err := c.api.Play(ctx); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}
	return nil
}

func (c *webClient) Pause(ctx context.Context) error {
	if err := c.api.Pause(ctx); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}
	return nil
}

func (c *webClient) Next(ctx context.Context) error {
	if err := c.api.Next(ctx); err != nil {
		return fmt.Errorf("failed to skip to next track: %w", err)
	}
	return nil
}

func (c *webClient) Previous(ctx context.Context) error {
	if err := c.api.Previous(ctx); err != nil {
		return fmt.Errorf("failed to skip to previous track: %w", err)
	}
	return nil
}

func (c *webClient) SeekTo(ctx context.Context, pos time.Duration) error {
	if err := c.api.Seek(ctx, int(pos.Milliseconds())); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

func (c *webClient) SetShuffle(ctx context.Context, on bool) error {
	if err := c.api.Shuffle(ctx, on); err != nil {
		return fmt.Errorf("failed to set shuffle: %w", err)
	}
	return nil
}

func (c *webClient) SetRepeat(ctx context.Context, mode RepeatMode) error {
	if err := c.api.Repeat(ctx, string(mode)); err != nil {
		return fmt.Errorf("failed to set repeat: %w", err)
	}
	return nil
}

func (c *webClient) SetVolume(ctx context.Context, volume int) error {
	if err := c.api.Volume(ctx, volume); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	return nil
}

func parseRepeat(s string) RepeatMode {
	switch s {
	case "track":
		return RepeatTrack
	case "context":
		return RepeatContext
	}
	return RepeatOff
}

// splitContextURI breaks "spotify:playlist:37i9dQZF1DX5g9" into kind and id.
func splitContextURI(uri string) (kind, id string, ok bool) {
	parts := strings.Split(uri, ":")
	if len(parts) != 3 || parts[0] != "spotify" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func joinArtists(artists []api.SimpleArtist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}
