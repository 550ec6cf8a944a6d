package spotify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fossabot/mpdify/internal/auth"
	"github.com/fossabot/mpdify/internal/idle"
	"github.com/fossabot/mpdify/internal/mpd"
)

// Handler is the command dispatcher: a single goroutine owning the playback
// cache and the play context. Connections send (command, reply channel) pairs
// to its inbox; the watcher cycle runs on a ticker inside the same loop, so
// nothing else ever touches the shared state.
type Handler struct {
	inbox    chan mpd.HandlerInput
	bus      *idle.Bus
	flow     *auth.Flow
	client   Client
	interval time.Duration

	// Owned by the Run goroutine.
	cache      *CachedPlayback
	context    *PlayContext
	contextURI string

	now func() time.Time
}

// NewHandler wires the dispatcher. client may be nil when no token has been
// restored yet; commands that need the upstream then raise AuthNeededError
// until the auth-step command installs one.
func NewHandler(client Client, flow *auth.Flow, bus *idle.Bus, pollInterval time.Duration) *Handler {
	return &Handler{
		inbox:    make(chan mpd.HandlerInput, 16),
		bus:      bus,
		flow:     flow,
		client:   client,
		interval: pollInterval,
		cache:    &CachedPlayback{},
		context:  NewPlayContext(nil),
		now:      time.Now,
	}
}

// Execute sends one command to the dispatcher and waits for its reply.
// Context cancellation is a transport-level failure, not a protocol error.
func (h *Handler) Execute(ctx context.Context, cmd mpd.Command) (mpd.HandlerOutput, error) {
	// Capacity one: the dispatcher's reply never blocks on a caller that
	// disconnected before the answer.
	resp := make(chan mpd.HandlerResult, 1)
	select {
	case h.inbox <- mpd.HandlerInput{Command: cmd, Resp: resp}:
	case <-ctx.Done():
		return mpd.OutputOK, ctx.Err()
	}
	select {
	case result := <-resp:
		return result.Output, result.Err
	case <-ctx.Done():
		return mpd.OutputOK, ctx.Err()
	}
}

// Run processes commands and watcher ticks until the context is cancelled.
func (h *Handler) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-h.inbox:
			h.serve(ctx, in)
		case <-ticker.C:
			h.poll(ctx)
		}
	}
}

func (h *Handler) serve(ctx context.Context, in mpd.HandlerInput) {
	out, err := h.execute(ctx, in.Command)
	select {
	case in.Resp <- mpd.HandlerResult{Output: out, Err: err}:
	default:
		// Reply channel already occupied or gone; drop the result.
	}
}

func (h *Handler) execute(ctx context.Context, cmd mpd.Command) (mpd.HandlerOutput, error) {
	switch c := cmd.(type) {
	case mpd.StatusCommand:
		return BuildStatus(h.cache, h.context, h.now()), nil
	case mpd.CurrentSongCommand:
		return BuildCurrentSong(h.cache, h.context), nil
	case mpd.PlaylistInfoCommand:
		return BuildPlaylistInfo(h.context), nil
	case mpd.CommandsCommand:
		return mpd.Output(mpd.CommandsResponse{Commands: mpd.CommandNames}), nil
	case mpd.PingCommand, mpd.CloseCommand, mpd.NoIdleCommand:
		return mpd.OutputOK, nil

	case mpd.OutputsCommand:
		client, err := h.requireClient()
		if err != nil {
			return mpd.OutputOK, err
		}
		devices, err := client.Devices(ctx)
		if err != nil {
			return mpd.OutputOK, err
		}
		return BuildOutputs(devices), nil

	case mpd.PlayCommand:
		return h.mutate(ctx, func(client Client) error { return client.Play(ctx) }, h.applyPlaying(true))
	case mpd.PauseCommand:
		return h.pause(ctx, c)
	case mpd.StopCommand:
		return h.mutate(ctx, func(client Client) error { return client.Pause(ctx) }, h.applyPlaying(false))
	case mpd.NextCommand:
		return h.skip(ctx, Client.Next)
	case mpd.PreviousCommand:
		return h.skip(ctx, Client.Previous)
	case mpd.SeekCurCommand:
		return h.mutate(ctx,
			func(client Client) error { return client.SeekTo(ctx, c.Position) },
			h.applyProgress(c.Position))
	case mpd.RandomCommand:
		return h.mutate(ctx,
			func(client Client) error { return client.SetShuffle(ctx, c.State) },
			h.applyShuffle(c.State))
	case mpd.RepeatCommand:
		mode := RepeatOff
		if c.State {
			mode = RepeatContext
		}
		return h.setRepeat(ctx, mode)
	case mpd.SingleCommand:
		mode := RepeatOff
		if c.State {
			mode = RepeatTrack
		}
		return h.setRepeat(ctx, mode)
	case mpd.SetVolCommand:
		return h.mutate(ctx,
			func(client Client) error { return client.SetVolume(ctx, c.Volume) },
			h.applyVolume(c.Volume))

	case mpd.SpotifyAuthCommand:
		return h.authenticate(ctx, c)
	}
	return mpd.OutputOK, mpd.UnknownCommandError(mpd.Name(cmd))
}

func (h *Handler) requireClient() (Client, error) {
	if h.client != nil {
		return h.client, nil
	}
	url := ""
	if h.flow != nil {
		url = h.flow.URL()
	}
	return nil, &mpd.AuthNeededError{URL: url}
}

// mutate runs an upstream control call and, on success, applies a proactive
// cache update so status answers reflect the change before the next poll.
func (h *Handler) mutate(ctx context.Context, call func(Client) error, apply func()) (mpd.HandlerOutput, error) {
	client, err := h.requireClient()
	if err != nil {
		return mpd.OutputOK, err
	}
	if err := call(client); err != nil {
		return mpd.OutputOK, err
	}
	if apply != nil {
		apply()
	}
	return mpd.OutputOK, nil
}

func (h *Handler) pause(ctx context.Context, c mpd.PauseCommand) (mpd.HandlerOutput, error) {
	// Bare pause toggles.
	target := !playingOf(h.cache.Data)
	if c.State != nil {
		target = !*c.State
	}
	call := Client.Pause
	if target {
		call = Client.Play
	}
	return h.mutate(ctx, func(client Client) error { return call(client, ctx) }, h.applyPlaying(target))
}

func (h *Handler) setRepeat(ctx context.Context, mode RepeatMode) (mpd.HandlerOutput, error) {
	return h.mutate(ctx,
		func(client Client) error { return client.SetRepeat(ctx, mode) },
		func() {
			h.apply(func(s *PlaybackState) { s.Repeat = mode })
			h.bus.Notify(mpd.SubsystemOptions)
		})
}

// skip forwards next/previous and refreshes the cache with an immediate poll,
// since the new item is only known upstream.
func (h *Handler) skip(ctx context.Context, call func(Client, context.Context) error) (mpd.HandlerOutput, error) {
	client, err := h.requireClient()
	if err != nil {
		return mpd.OutputOK, err
	}
	if err := call(client, ctx); err != nil {
		return mpd.OutputOK, err
	}
	h.poll(ctx)
	return mpd.OutputOK, nil
}

// apply replaces the cache with a copy transformed by fn, freezing the
// current elapsed value into the copy so extrapolation restarts from now.
func (h *Handler) apply(fn func(*PlaybackState)) {
	if h.cache.Data == nil {
		return
	}
	next := *h.cache.Data
	if elapsed, ok := h.cache.ElapsedAt(h.now()); ok {
		next.Progress = &elapsed
	}
	fn(&next)
	h.cache = &CachedPlayback{Data: &next, At: h.now()}
}

func (h *Handler) applyPlaying(playing bool) func() {
	return func() {
		h.apply(func(s *PlaybackState) { s.Playing = playing })
		h.bus.Notify(mpd.SubsystemPlayer)
	}
}

func (h *Handler) applyProgress(pos time.Duration) func() {
	return func() {
		h.apply(func(s *PlaybackState) { s.Progress = &pos })
		h.bus.Notify(mpd.SubsystemPlayer)
	}
}

func (h *Handler) applyShuffle(on bool) func() {
	return func() {
		h.apply(func(s *PlaybackState) { s.Shuffle = on })
		h.bus.Notify(mpd.SubsystemOptions)
	}
}

func (h *Handler) applyVolume(volume int) func() {
	return func() {
		h.apply(func(s *PlaybackState) { s.Volume = &volume })
		h.bus.Notify(mpd.SubsystemMixer)
	}
}

func (h *Handler) authenticate(ctx context.Context, c mpd.SpotifyAuthCommand) (mpd.HandlerOutput, error) {
	if c.CallbackURL == "" {
		_, err := h.requireClient()
		return mpd.OutputOK, err
	}

	if h.flow == nil {
		return mpd.OutputOK, fmt.Errorf("auth flow not configured")
	}
	api, err := h.flow.Exchange(ctx, c.CallbackURL)
	if err != nil {
		return mpd.OutputOK, err
	}
	h.client = NewClient(api)
	log.Println("auth: Spotify client authenticated")
	h.poll(ctx)
	return mpd.OutputOK, nil
}
