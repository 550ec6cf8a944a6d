package mpd

import "fmt"

// IdleSubsystem is a category of server state an MPD client can block-wait on
// with the idle command.
type IdleSubsystem string

const (
	SubsystemPlayer   IdleSubsystem = "player"
	SubsystemPlaylist IdleSubsystem = "playlist"
	SubsystemOptions  IdleSubsystem = "options"
	SubsystemMixer    IdleSubsystem = "mixer"
	SubsystemOutput   IdleSubsystem = "output"
)

// AllSubsystems lists every subsystem this server can report changes for.
var AllSubsystems = []IdleSubsystem{
	SubsystemPlayer,
	SubsystemPlaylist,
	SubsystemOptions,
	SubsystemMixer,
	SubsystemOutput,
}

// ParseSubsystem maps an idle argument to its subsystem.
func ParseSubsystem(s string) (IdleSubsystem, error) {
	for _, sub := range AllSubsystems {
		if s == string(sub) {
			return sub, nil
		}
	}
	return "", &InputError{Code: AckErrorArg, Message: fmt.Sprintf("unknown subsystem %q", s)}
}

// ParseSubsystems parses the argument list of an idle command. An empty list
// means the client waits on every subsystem.
func ParseSubsystems(args []string) ([]IdleSubsystem, error) {
	subs := make([]IdleSubsystem, 0, len(args))
	for _, a := range args {
		sub, err := ParseSubsystem(a)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
