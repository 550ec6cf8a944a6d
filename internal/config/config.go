package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Spotify Web API application credentials
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// Listener addresses
	MPDAddress  string
	HTTPAddress string

	// How often the watcher polls Spotify for the current playback.
	// Spotify rate-limits aggressive polling, keep this at 1s or above.
	PollInterval time.Duration
}

// Load reads configuration from the .env file or system environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("SPOTIFY_REDIRECT_URI"),
		MPDAddress:   os.Getenv("MPDIFY_MPD_ADDRESS"),
		HTTPAddress:  os.Getenv("MPDIFY_HTTP_ADDRESS"),
		PollInterval: 2 * time.Second,
	}

	if cfg.MPDAddress == "" {
		cfg.MPDAddress = ":6600"
	}
	if cfg.HTTPAddress == "" {
		cfg.HTTPAddress = ":8080"
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = "http://localhost:8080/auth"
	}
	if v := os.Getenv("MPDIFY_POLL_INTERVAL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.PollInterval = time.Duration(secs) * time.Second
		}
	}

	return cfg
}
