package spotify

import (
	"context"
	"sync"
	"time"
)

// fakeClient implements Client in memory and records control calls.
type fakeClient struct {
	mu       sync.Mutex
	playback *PlaybackState
	err      error
	devices  []Device
	items    map[string][]ContextItem
	calls    []string
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeClient) CurrentPlayback(ctx context.Context) (*PlaybackState, error) {
	f.record("playback")
	return f.playback, f.err
}

func (f *fakeClient) Devices(ctx context.Context) ([]Device, error) {
	f.record("devices")
	return f.devices, f.err
}

func (f *fakeClient) ContextItems(ctx context.Context, uri string) ([]ContextItem, error) {
	f.record("context:" + uri)
	return f.items[uri], f.err
}

func (f *fakeClient) Play(ctx context.Context) error     { f.record("play"); return f.err }
func (f *fakeClient) Pause(ctx context.Context) error    { f.record("pause"); return f.err }
func (f *fakeClient) Next(ctx context.Context) error     { f.record("next"); return f.err }
func (f *fakeClient) Previous(ctx context.Context) error { f.record("previous"); return f.err }

func (f *fakeClient) SeekTo(ctx context.Context, pos time.Duration) error {
	f.record("seek")
	return f.err
}

func (f *fakeClient) SetShuffle(ctx context.Context, on bool) error {
	f.record("shuffle")
	return f.err
}

func (f *fakeClient) SetRepeat(ctx context.Context, mode RepeatMode) error {
	f.record("repeat:" + string(mode))
	return f.err
}

func (f *fakeClient) SetVolume(ctx context.Context, volume int) error {
	f.record("setvol")
	return f.err
}
