package mpd

import (
	"fmt"
	"strconv"
	"time"
)

// Command is one parsed protocol request. The concrete types below form a
// closed set; the dispatcher switches over them exhaustively.
type Command interface {
	commandName() string
}

type StatusCommand struct{}
type CurrentSongCommand struct{}
type PlaylistInfoCommand struct{}
type OutputsCommand struct{}
type PingCommand struct{}
type CloseCommand struct{}
type CommandsCommand struct{}
type NextCommand struct{}
type PreviousCommand struct{}
type StopCommand struct{}
type NoIdleCommand struct{}

// IdleCommand blocks the connection until one of the requested subsystems
// changes. An empty Subsystems slice waits on all of them.
type IdleCommand struct {
	Subsystems []IdleSubsystem
}

// PlayCommand resumes playback. Pos, when present, is the playlist position to
// start from; the Spotify upstream cannot jump by position so it is ignored
// beyond resuming.
type PlayCommand struct {
	Pos *int
}

// PauseCommand pauses or resumes. Toggle semantics when State is nil.
type PauseCommand struct {
	State *bool
}

type SeekCurCommand struct {
	Position time.Duration
}

type RandomCommand struct{ State bool }
type RepeatCommand struct{ State bool }
type SingleCommand struct{ State bool }

type SetVolCommand struct {
	Volume int
}

// SpotifyAuthCommand drives the OAuth flow through the dispatcher. With an
// empty CallbackURL it asks whether authentication is needed (raising
// AuthNeededError with the authorize URL if so); with a callback URL it
// completes the code exchange.
type SpotifyAuthCommand struct {
	CallbackURL string
}

func (StatusCommand) commandName() string       { return "status" }
func (CurrentSongCommand) commandName() string  { return "currentsong" }
func (PlaylistInfoCommand) commandName() string { return "playlistinfo" }
func (OutputsCommand) commandName() string      { return "outputs" }
func (PingCommand) commandName() string         { return "ping" }
func (CloseCommand) commandName() string        { return "close" }
func (CommandsCommand) commandName() string     { return "commands" }
func (NextCommand) commandName() string         { return "next" }
func (PreviousCommand) commandName() string     { return "previous" }
func (StopCommand) commandName() string         { return "stop" }
func (NoIdleCommand) commandName() string       { return "noidle" }
func (IdleCommand) commandName() string         { return "idle" }
func (PlayCommand) commandName() string         { return "play" }
func (PauseCommand) commandName() string        { return "pause" }
func (SeekCurCommand) commandName() string      { return "seekcur" }
func (RandomCommand) commandName() string       { return "random" }
func (RepeatCommand) commandName() string       { return "repeat" }
func (SingleCommand) commandName() string       { return "single" }
func (SetVolCommand) commandName() string       { return "setvol" }
func (SpotifyAuthCommand) commandName() string  { return "spotifyauth" }

// Name returns the protocol verb of a command, for ACK lines and logging.
func Name(c Command) string {
	if c == nil {
		return ""
	}
	return c.commandName()
}

// CommandNames lists the verbs this server accepts, for the commands command.
var CommandNames = []string{
	"close", "commands", "currentsong", "idle", "next", "noidle", "outputs",
	"pause", "ping", "play", "playlistinfo", "previous", "random", "repeat",
	"seekcur", "setvol", "single", "status", "stop",
}

// FromTokens builds a Command from a tokenized request line. The first token
// is the verb, the rest are its arguments.
func FromTokens(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return nil, &InputError{Code: AckErrorUnknown, Message: "empty command"}
	}
	verb, args := tokens[0], tokens[1:]

	switch verb {
	case "status":
		return StatusCommand{}, nil
	case "currentsong":
		return CurrentSongCommand{}, nil
	case "playlistinfo":
		return PlaylistInfoCommand{}, nil
	case "outputs":
		return OutputsCommand{}, nil
	case "ping":
		return PingCommand{}, nil
	case "close":
		return CloseCommand{}, nil
	case "commands":
		return CommandsCommand{}, nil
	case "next":
		return NextCommand{}, nil
	case "previous":
		return PreviousCommand{}, nil
	case "stop":
		return StopCommand{}, nil
	case "noidle":
		return NoIdleCommand{}, nil

	case "idle":
		subs, err := ParseSubsystems(args)
		if err != nil {
			return nil, err
		}
		return IdleCommand{Subsystems: subs}, nil

	case "play":
		if len(args) == 0 {
			return PlayCommand{}, nil
		}
		pos, err := intArg(args[0])
		if err != nil {
			return nil, err
		}
		return PlayCommand{Pos: &pos}, nil

	case "pause":
		if len(args) == 0 {
			return PauseCommand{}, nil
		}
		state, err := boolArg(args[0])
		if err != nil {
			return nil, err
		}
		return PauseCommand{State: &state}, nil

	case "seekcur":
		if len(args) == 0 {
			return nil, missingArg(verb)
		}
		secs, err := strconv.ParseFloat(args[0], 64)
		if err != nil || secs < 0 {
			return nil, badArg(args[0])
		}
		return SeekCurCommand{Position: time.Duration(secs * float64(time.Second))}, nil

	case "random", "repeat", "single":
		if len(args) == 0 {
			return nil, missingArg(verb)
		}
		state, err := boolArg(args[0])
		if err != nil {
			return nil, err
		}
		switch verb {
		case "random":
			return RandomCommand{State: state}, nil
		case "repeat":
			return RepeatCommand{State: state}, nil
		default:
			return SingleCommand{State: state}, nil
		}

	case "setvol":
		if len(args) == 0 {
			return nil, missingArg(verb)
		}
		vol, err := intArg(args[0])
		if err != nil {
			return nil, err
		}
		if vol < 0 || vol > 100 {
			return nil, badArg(args[0])
		}
		return SetVolCommand{Volume: vol}, nil

	case "spotifyauth":
		cmd := SpotifyAuthCommand{}
		if len(args) > 0 {
			cmd.CallbackURL = args[0]
		}
		return cmd, nil
	}

	return nil, UnknownCommandError(verb)
}

func intArg(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, badArg(s)
	}
	return v, nil
}

func boolArg(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, badArg(s)
}

func badArg(s string) *InputError {
	return &InputError{Code: AckErrorArg, Message: fmt.Sprintf("invalid argument %q", s)}
}

func missingArg(verb string) *InputError {
	return &InputError{Code: AckErrorArg, Message: "missing argument for " + verb}
}
