// Package mpdlistener serves the MPD line protocol over TCP: request framing,
// OK/ACK response syntax, idle/noidle handling and command_list batching.
// Commands are parsed into typed values and executed by the dispatcher; typed
// results are rendered back into key: value lines.
package mpdlistener

import (
	"bufio"
	"context"
	"log"
	"net"
	"strings"

	"github.com/fossabot/mpdify/internal/idle"
	"github.com/fossabot/mpdify/internal/mpd"
)

// protocolVersion is the MPD protocol version announced in the banner.
const protocolVersion = "0.21.0"

// Dispatcher executes one parsed command and returns its typed result.
type Dispatcher interface {
	Execute(ctx context.Context, cmd mpd.Command) (mpd.HandlerOutput, error)
}

// Listener accepts MPD protocol connections.
type Listener struct {
	addr     string
	dispatch Dispatcher
	bus      *idle.Bus

	ln net.Listener
}

func New(addr string, dispatch Dispatcher, bus *idle.Bus) *Listener {
	return &Listener{addr: addr, dispatch: dispatch, bus: bus}
}

// Listen binds the TCP socket. Separate from Serve so callers can learn the
// bound address before accepting.
func (l *Listener) Listen(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", l.addr)
	if err != nil {
		return err
	}
	l.ln = ln
	log.Printf("mpd: listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address. Only valid after Listen.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Serve accepts connections until the context is cancelled.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		l.ln.Close()
	}()
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go l.serve(ctx, conn)
	}
}

// Run is Listen followed by Serve.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.Listen(ctx); err != nil {
		return err
	}
	return l.Serve(ctx)
}

// serve handles one client connection. A dedicated reader goroutine feeds
// request lines through a channel so idle waits can race bus messages against
// new input.
func (l *Listener) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	w := bufio.NewWriter(conn)
	w.WriteString("OK MPD " + protocolVersion + "\n")
	if err := w.Flush(); err != nil {
		return
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	// pending holds a line that cancelled an idle wait and still needs to be
	// processed.
	var pending string
	for {
		var line string
		if pending != "" {
			line, pending = pending, ""
		} else {
			select {
			case <-ctx.Done():
				return
			case next, ok := <-lines:
				if !ok {
					return
				}
				line = next
			}
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		switch verb := firstToken(line); verb {
		case "command_list_begin", "command_list_ok_begin":
			if !l.commandList(ctx, w, lines, verb == "command_list_ok_begin") {
				return
			}
		default:
			next, keep := l.serveLine(ctx, w, lines, line)
			if !keep {
				return
			}
			pending = next
		}
	}
}

// serveLine processes one request line. It returns a line that interrupted an
// idle wait (to be processed next) and whether the connection stays open.
func (l *Listener) serveLine(ctx context.Context, w *bufio.Writer, lines <-chan string, line string) (string, bool) {
	cmd, err := mpd.FromTokens(Tokenize(line))
	if err != nil {
		writeAck(w, firstToken(line), 0, err)
		return "", w.Flush() == nil
	}

	switch c := cmd.(type) {
	case mpd.CloseCommand:
		return "", false
	case mpd.NoIdleCommand:
		// noidle outside an idle wait acknowledges with no events.
		w.WriteString("OK\n")
		return "", w.Flush() == nil
	case mpd.IdleCommand:
		return l.idleWait(ctx, w, lines, c.Subsystems)
	}

	out, err := l.dispatch.Execute(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return "", false
		}
		writeAck(w, mpd.Name(cmd), 0, err)
		return "", w.Flush() == nil
	}
	if werr := writeOutput(w, out); werr != nil {
		return "", false
	}
	w.WriteString("OK\n")
	return "", w.Flush() == nil
}

// idleWait parks the connection until a relevant subsystem changes or new
// input arrives, whichever comes first. A noidle line resolves the wait with
// a bare OK; any other input cancels it and is processed next.
func (l *Listener) idleWait(ctx context.Context, w *bufio.Writer, lines <-chan string, subsystems []mpd.IdleSubsystem) (string, bool) {
	sub := l.bus.Subscribe()
	defer sub.Close()

	wanted := make(map[mpd.IdleSubsystem]bool, len(subsystems))
	for _, s := range subsystems {
		wanted[s] = true
	}

	for {
		select {
		case <-ctx.Done():
			return "", false

		case msg := <-sub.C:
			if len(wanted) > 0 && !wanted[msg.Subsystem] {
				continue
			}
			w.WriteString("changed: " + string(msg.Subsystem) + "\nOK\n")
			return "", w.Flush() == nil

		case line, ok := <-lines:
			if !ok {
				return "", false
			}
			if strings.TrimSpace(line) == "noidle" {
				w.WriteString("OK\n")
				return "", w.Flush() == nil
			}
			// New command cancels the wait; terminate the idle with an
			// empty result and let the caller process the line.
			w.WriteString("OK\n")
			if w.Flush() != nil {
				return "", false
			}
			return line, true
		}
	}
}

// commandList collects lines until command_list_end and executes them in
// order. The ok variant separates each successful command with list_OK. An
// error stops the batch and reports the failing command's index.
func (l *Listener) commandList(ctx context.Context, w *bufio.Writer, lines <-chan string, okMode bool) bool {
	var batch []string
	for {
		select {
		case <-ctx.Done():
			return false
		case line, ok := <-lines:
			if !ok {
				return false
			}
			if strings.TrimSpace(line) == "command_list_end" {
				return l.runCommandList(ctx, w, batch, okMode)
			}
			batch = append(batch, line)
		}
	}
}

func (l *Listener) runCommandList(ctx context.Context, w *bufio.Writer, batch []string, okMode bool) bool {
	for i, line := range batch {
		cmd, err := mpd.FromTokens(Tokenize(line))
		if err == nil {
			var out mpd.HandlerOutput
			out, err = l.dispatch.Execute(ctx, cmd)
			if err == nil {
				if werr := writeOutput(w, out); werr != nil {
					return false
				}
				if okMode {
					w.WriteString("list_OK\n")
				}
				continue
			}
		}
		writeAck(w, firstToken(line), i, err)
		return w.Flush() == nil
	}
	w.WriteString("OK\n")
	return w.Flush() == nil
}

func firstToken(line string) string {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// Tokenize splits a request line into verb and arguments. Arguments may be
// double-quoted; backslash escapes the next character inside quotes.
func Tokenize(line string) []string {
	var tokens []string
	var current strings.Builder
	inToken, inQuotes, escaped := false, false, false

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && inQuotes:
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
			inToken = true
		case (r == ' ' || r == '\t') && !inQuotes:
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens
}
