package mpd

import "time"

// PlaybackStatus is the state field of a status response.
type PlaybackStatus string

const (
	StatePlay  PlaybackStatus = "play"
	StatePause PlaybackStatus = "pause"
	StateStop  PlaybackStatus = "stop"
)

// Response is one renderable record in a handler reply. The implementations
// below form a closed set; listeners type-switch over them exhaustively to
// produce wire lines or JSON.
type Response interface {
	response()
}

// StatusDurations is the elapsed/duration block of a status response. It is
// only present when both values are known; a partial block is never emitted.
type StatusDurations struct {
	Elapsed  time.Duration `json:"elapsed"`
	Duration time.Duration `json:"duration"`
}

// StatusPlaylistInfo carries the playlist length and the position of the
// current song within the active context.
type StatusPlaylistInfo struct {
	PlaylistLength int `json:"playlistlength"`
	Song           int `json:"song"`
}

// StatusResponse answers the status command.
type StatusResponse struct {
	Volume       *int                `json:"volume,omitempty"`
	State        PlaybackStatus      `json:"state"`
	Random       bool                `json:"random"`
	Repeat       bool                `json:"repeat"`
	Single       bool                `json:"single"`
	Durations    *StatusDurations    `json:"durations,omitempty"`
	PlaylistInfo *StatusPlaylistInfo `json:"playlist_info,omitempty"`
}

// SongResponse describes one song, for currentsong and playlistinfo.
type SongResponse struct {
	File     string        `json:"file"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Album    string        `json:"album"`
	Duration time.Duration `json:"duration"`
	Pos      int           `json:"pos"`
}

// OutputsResponse describes one audio output, for the outputs command.
type OutputsResponse struct {
	OutputID      int    `json:"outputid"`
	OutputName    string `json:"outputname"`
	OutputEnabled bool   `json:"outputenabled"`
	Plugin        string `json:"plugin"`
}

// CommandsResponse lists the verbs the server accepts.
type CommandsResponse struct {
	Commands []string `json:"commands"`
}

func (StatusResponse) response()   {}
func (SongResponse) response()     {}
func (OutputsResponse) response()  {}
func (CommandsResponse) response() {}

// HandlerOutput is the successful result of one command: either a bare
// acknowledgement (empty Data) or an ordered list of response records.
type HandlerOutput struct {
	Data []Response
}

// Empty reports whether the output carries no records.
func (o HandlerOutput) Empty() bool {
	return len(o.Data) == 0
}

// OutputOK is the bare acknowledgement.
var OutputOK = HandlerOutput{}

// Output bundles response records into a handler output.
func Output(records ...Response) HandlerOutput {
	return HandlerOutput{Data: records}
}

// HandlerResult is the reply delivered on a request's response channel.
type HandlerResult struct {
	Output HandlerOutput
	Err    error
}

// HandlerInput is the request envelope a connection sends to the dispatcher.
// Resp must have capacity for one result so the dispatcher never blocks on a
// caller that went away.
type HandlerInput struct {
	Command Command
	Resp    chan HandlerResult
}
