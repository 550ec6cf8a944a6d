package spotify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fossabot/mpdify/internal/idle"
	"github.com/fossabot/mpdify/internal/mpd"
)

func TestHandler_StatusWithoutSnapshot(t *testing.T) {
	h := newTestHandler(&fakeClient{})

	out, err := h.execute(context.Background(), mpd.StatusCommand{})
	if err != nil {
		t.Fatalf("execute(status) error: %v", err)
	}
	status := out.Data[0].(mpd.StatusResponse)
	if status.State != mpd.StateStop {
		t.Errorf("state = %s, want stop", status.State)
	}
}

func TestHandler_UnauthenticatedCommandsRaiseAuthNeeded(t *testing.T) {
	h := newTestHandler(nil) // no client installed

	for _, cmd := range []mpd.Command{
		mpd.PlayCommand{},
		mpd.NextCommand{},
		mpd.OutputsCommand{},
		mpd.SetVolCommand{Volume: 50},
	} {
		_, err := h.execute(context.Background(), cmd)
		var authErr *mpd.AuthNeededError
		if !errors.As(err, &authErr) {
			t.Errorf("execute(%s) error = %v, want AuthNeededError", mpd.Name(cmd), err)
		}
	}

	// Reads against the cache still answer.
	if _, err := h.execute(context.Background(), mpd.StatusCommand{}); err != nil {
		t.Errorf("execute(status) error = %v, want nil", err)
	}
}

func TestHandler_PauseUpdatesCacheProactively(t *testing.T) {
	client := &fakeClient{}
	h := newTestHandler(client)
	ctx := context.Background()

	progress := 20 * time.Second
	h.update(ctx, &PlaybackState{
		Playing:  true,
		Progress: &progress,
		Item:     &PlayingItem{ID: "t1", Duration: time.Minute},
	})

	sub := h.bus.Subscribe()
	defer sub.Close()

	on := true
	if _, err := h.execute(ctx, mpd.PauseCommand{State: &on}); err != nil {
		t.Fatalf("execute(pause) error: %v", err)
	}

	if playingOf(h.cache.Data) {
		t.Error("cache still playing after pause")
	}
	got := drain(sub)
	if len(got) != 1 || got[0] != mpd.SubsystemPlayer {
		t.Errorf("notifications = %v, want exactly [player]", got)
	}
}

func TestHandler_SeekFreezesProgress(t *testing.T) {
	client := &fakeClient{}
	h := newTestHandler(client)
	ctx := context.Background()

	progress := 5 * time.Second
	h.update(ctx, &PlaybackState{
		Playing:  true,
		Progress: &progress,
		Item:     &PlayingItem{ID: "t1", Duration: time.Minute},
	})

	if _, err := h.execute(ctx, mpd.SeekCurCommand{Position: 42 * time.Second}); err != nil {
		t.Fatalf("execute(seekcur) error: %v", err)
	}
	if h.cache.Data.Progress == nil || *h.cache.Data.Progress != 42*time.Second {
		t.Errorf("cached progress = %v, want 42s", h.cache.Data.Progress)
	}
}

func TestHandler_SingleMapsToRepeatTrack(t *testing.T) {
	client := &fakeClient{}
	h := newTestHandler(client)
	ctx := context.Background()

	h.update(ctx, &PlaybackState{Playing: true, Item: &PlayingItem{ID: "t1"}})

	if _, err := h.execute(ctx, mpd.SingleCommand{State: true}); err != nil {
		t.Fatalf("execute(single) error: %v", err)
	}
	if h.cache.Data.Repeat != RepeatTrack {
		t.Errorf("repeat = %s, want track", h.cache.Data.Repeat)
	}

	last := client.calls[len(client.calls)-1]
	if last != "repeat:track" {
		t.Errorf("last upstream call = %q, want repeat:track", last)
	}
}

func TestHandler_SkipRefreshesFromUpstream(t *testing.T) {
	client := &fakeClient{
		playback: &PlaybackState{Playing: true, Item: &PlayingItem{ID: "t2"}},
	}
	h := newTestHandler(client)
	ctx := context.Background()

	if _, err := h.execute(ctx, mpd.NextCommand{}); err != nil {
		t.Fatalf("execute(next) error: %v", err)
	}
	if h.cache.Data == nil || h.cache.Data.Item.ID != "t2" {
		t.Error("cache not refreshed after next")
	}
}

func TestHandler_UpstreamErrorPropagates(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream 503")}
	h := newTestHandler(client)

	_, err := h.execute(context.Background(), mpd.PlayCommand{})
	if err == nil || !errors.Is(err, client.err) {
		t.Errorf("execute(play) error = %v, want upstream error", err)
	}
}

func TestHandler_ReplyOrderingIsFIFO(t *testing.T) {
	h := NewHandler(&fakeClient{}, nil, idle.NewBus(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	resp1 := make(chan mpd.HandlerResult, 1)
	resp2 := make(chan mpd.HandlerResult, 1)
	h.inbox <- mpd.HandlerInput{Command: mpd.StatusCommand{}, Resp: resp1}
	h.inbox <- mpd.HandlerInput{Command: mpd.PingCommand{}, Resp: resp2}

	select {
	case <-resp2:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for second reply")
	}
	// The first command was answered before the second one was processed.
	select {
	case <-resp1:
	default:
		t.Error("second reply arrived before the first")
	}
}

func TestHandler_ExecuteCancelledContext(t *testing.T) {
	h := NewHandler(&fakeClient{}, nil, idle.NewBus(), time.Hour)
	// Dispatcher not running: Execute must fail on context, not hang.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.Execute(ctx, mpd.StatusCommand{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute error = %v, want context.Canceled", err)
	}
}
