package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/fossabot/mpdify/internal/auth"
	"github.com/fossabot/mpdify/internal/config"
	"github.com/fossabot/mpdify/internal/idle"
	httplistener "github.com/fossabot/mpdify/internal/listeners/http"
	mpdlistener "github.com/fossabot/mpdify/internal/listeners/mpd"
	"github.com/fossabot/mpdify/internal/spotify"
)

func main() {
	cfg := config.Load()

	mpdAddr := flag.String("mpd-address", cfg.MPDAddress, "address for the MPD protocol listener")
	httpAddr := flag.String("http-address", cfg.HTTPAddress, "address for the HTTP listener")
	pollInterval := flag.Duration("poll-interval", cfg.PollInterval, "how often to poll Spotify for playback changes")
	flag.Parse()

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		log.Fatal("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := idle.NewBus()
	flow := auth.New(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)

	var client spotify.Client
	if api, ok := flow.Restore(ctx); ok {
		log.Println("auth: restored persisted token")
		client = spotify.NewClient(api)
	} else {
		log.Printf("auth: no token yet, visit http://%s/auth to authenticate", *httpAddr)
	}

	handler := spotify.NewHandler(client, flow, bus, *pollInterval)
	go handler.Run(ctx)

	httpServer := httplistener.New(*httpAddr, handler, bus)
	go func() {
		if err := httpServer.Run(ctx); err != nil {
			log.Printf("http: server error: %v", err)
			cancel()
		}
	}()

	mpdServer := mpdlistener.New(*mpdAddr, handler, bus)
	go func() {
		if err := mpdServer.Run(ctx); err != nil {
			log.Printf("mpd: server error: %v", err)
			cancel()
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Shutting down...")
		cancel()
	case <-ctx.Done():
	}

	// Give listeners a moment to drain.
	time.Sleep(100 * time.Millisecond)
}
