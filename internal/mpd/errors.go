package mpd

import "fmt"

// AckCode is an MPD protocol error code, sent in ACK lines.
type AckCode int

const (
	AckErrorNotList    AckCode = 1
	AckErrorArg        AckCode = 2
	AckErrorPassword   AckCode = 3
	AckErrorPermission AckCode = 4
	AckErrorUnknown    AckCode = 5
	AckErrorNoExist    AckCode = 50
	AckErrorSystem     AckCode = 52
)

// InputError reports a malformed command. The connection stays open and the
// client receives an ACK line carrying the code.
type InputError struct {
	Code    AckCode
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// UnknownCommandError builds the InputError for an unrecognized verb.
func UnknownCommandError(verb string) *InputError {
	return &InputError{Code: AckErrorUnknown, Message: fmt.Sprintf("unknown command %q", verb)}
}

// AuthNeededError signals that a command requires Spotify credentials the
// server does not hold yet. URL is the authorization page the user must visit.
type AuthNeededError struct {
	URL string
}

func (e *AuthNeededError) Error() string {
	return "authentication required, visit " + e.URL
}
