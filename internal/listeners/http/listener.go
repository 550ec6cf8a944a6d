// Package httplistener exposes the dispatcher over HTTP: JSON command
// endpoints, the OAuth entry/callback route, and a WebSocket stream of idle
// notifications.
package httplistener

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/fossabot/mpdify/internal/idle"
	"github.com/fossabot/mpdify/internal/mpd"
)

// Dispatcher executes one parsed command and returns its typed result.
type Dispatcher interface {
	Execute(ctx context.Context, cmd mpd.Command) (mpd.HandlerOutput, error)
}

// Server serves the HTTP surface of the daemon.
type Server struct {
	addr     string
	dispatch Dispatcher
	bus      *idle.Bus
}

func New(addr string, dispatch Dispatcher, bus *idle.Bus) *Server {
	return &Server{addr: addr, dispatch: dispatch, bus: bus}
}

// routes builds the request mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/command/", s.handleCommand)
	mux.HandleFunc("/auth", s.handleAuth)
	mux.HandleFunc("/events", s.handleEvents)
	return mux
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.routes(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Printf("http: listening on %s", s.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleCommand maps /command/<verb>/<arg>/... to a dispatched command and
// renders its records as JSON. An empty result is a 204.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	tokens := strings.Split(strings.TrimPrefix(r.URL.Path, "/command/"), "/")
	cmd, err := mpd.FromTokens(tokens)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := s.dispatch.Execute(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	if out.Empty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out.Data); err != nil {
		log.Printf("http: encoding response: %v", err)
	}
}

// handleAuth drives the OAuth round-trip. Without a query it redirects the
// browser to Spotify's authorize page when authentication is pending; with
// one it forwards the callback URL to the dispatcher for the code exchange.
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	if r.URL.RawQuery == "" {
		_, err := s.dispatch.Execute(r.Context(), mpd.SpotifyAuthCommand{})
		var authErr *mpd.AuthNeededError
		if errors.As(err, &authErr) {
			http.Redirect(w, r, authErr.URL, http.StatusFound)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	callback := r.URL.String()
	if _, err := s.dispatch.Execute(r.Context(), mpd.SpotifyAuthCommand{CallbackURL: callback}); err != nil {
		writeError(w, err)
		return
	}
	w.Write([]byte("Authentication successful! You can close this window.\n"))
}

func writeError(w http.ResponseWriter, err error) {
	var inputErr *mpd.InputError
	var authErr *mpd.AuthNeededError
	status := http.StatusInternalServerError
	body := map[string]string{"error": err.Error()}
	switch {
	case errors.As(err, &inputErr):
		status = http.StatusBadRequest
	case errors.As(err, &authErr):
		status = http.StatusForbidden
		body["auth_url"] = authErr.URL
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
