// Package auth handles the Spotify OAuth authorization-code flow. Unlike a
// CLI tool that spawns its own callback server, the browser redirect lands on
// the daemon's HTTP listener, which forwards the callback URL through the
// dispatcher as an auth-step command; Exchange completes it here.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/adrg/xdg"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const state = "mpdify"

const tokenFile = "mpdify/token.json"

// Flow holds the OAuth configuration for the lifetime of the process.
type Flow struct {
	authenticator *spotifyauth.Authenticator
}

// New creates a Flow for the given Spotify application credentials.
func New(clientID, clientSecret, redirectURI string) *Flow {
	return &Flow{
		authenticator: spotifyauth.New(
			spotifyauth.WithRedirectURL(redirectURI),
			spotifyauth.WithScopes(
				spotifyauth.ScopeUserReadCurrentlyPlaying,
				spotifyauth.ScopeUserReadPlaybackState,
				spotifyauth.ScopeUserModifyPlaybackState,
				spotifyauth.ScopePlaylistReadPrivate,
			),
			spotifyauth.WithClientID(clientID),
			spotifyauth.WithClientSecret(clientSecret),
		),
	}
}

// URL returns the authorization page the user must visit.
func (f *Flow) URL() string {
	return f.authenticator.AuthURL(state)
}

// Exchange completes the flow from the redirect callback URL, verifying the
// state parameter and trading the code for a token. The token is persisted so
// later runs can skip the browser round-trip.
func (f *Flow) Exchange(ctx context.Context, callbackURL string) (*spotify.Client, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return nil, fmt.Errorf("parsing callback URL: %w", err)
	}
	q := u.Query()
	if st := q.Get("state"); st != state {
		return nil, fmt.Errorf("state mismatch: %q", st)
	}
	code := q.Get("code")
	if code == "" {
		return nil, fmt.Errorf("callback URL carries no code")
	}

	token, err := f.authenticator.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}
	if err := saveToken(token); err != nil {
		// Not fatal, the session still works until restart.
		log.Printf("auth: could not persist token: %v", err)
	}
	return spotify.New(f.authenticator.Client(ctx, token)), nil
}

// Restore builds a client from a previously persisted token, if one exists.
func (f *Flow) Restore(ctx context.Context) (*spotify.Client, bool) {
	token, err := loadToken()
	if err != nil {
		return nil, false
	}
	return spotify.New(f.authenticator.Client(ctx, token)), true
}

func saveToken(token *oauth2.Token) error {
	path, err := xdg.StateFile(tokenFile)
	if err != nil {
		return err
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func loadToken() (*oauth2.Token, error) {
	path, err := xdg.SearchStateFile(tokenFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	return &token, nil
}
