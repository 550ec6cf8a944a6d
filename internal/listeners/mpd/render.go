package mpdlistener

import (
	"errors"
	"fmt"
	"io"

	"github.com/fossabot/mpdify/internal/mpd"
)

// writeOutput renders the records of a handler output as key: value lines,
// without the trailing OK (the caller owns list framing).
func writeOutput(w io.Writer, out mpd.HandlerOutput) error {
	for _, record := range out.Data {
		if err := writeResponse(w, record); err != nil {
			return err
		}
	}
	return nil
}

// writeResponse matches the closed set of response shapes exhaustively.
func writeResponse(w io.Writer, record mpd.Response) error {
	switch v := record.(type) {
	case mpd.StatusResponse:
		if v.Volume != nil {
			if _, err := fmt.Fprintf(w, "volume: %d\n", *v.Volume); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "repeat: %s\nrandom: %s\nsingle: %s\nconsume: 0\nstate: %s\n",
			bool01(v.Repeat), bool01(v.Random), bool01(v.Single), v.State); err != nil {
			return err
		}
		if p := v.PlaylistInfo; p != nil {
			if _, err := fmt.Fprintf(w, "playlistlength: %d\nsong: %d\n", p.PlaylistLength, p.Song); err != nil {
				return err
			}
		}
		if d := v.Durations; d != nil {
			_, err := fmt.Fprintf(w, "time: %d:%d\nelapsed: %.3f\nduration: %.3f\n",
				int(d.Elapsed.Seconds()), int(d.Duration.Seconds()),
				d.Elapsed.Seconds(), d.Duration.Seconds())
			return err
		}
		return nil

	case mpd.SongResponse:
		_, err := fmt.Fprintf(w, "file: %s\nTitle: %s\nArtist: %s\nAlbum: %s\nTime: %d\nduration: %.3f\nPos: %d\n",
			v.File, v.Title, v.Artist, v.Album,
			int(v.Duration.Seconds()), v.Duration.Seconds(), v.Pos)
		return err

	case mpd.OutputsResponse:
		_, err := fmt.Fprintf(w, "outputid: %d\noutputname: %s\nplugin: %s\noutputenabled: %s\n",
			v.OutputID, v.OutputName, v.Plugin, bool01(v.OutputEnabled))
		return err

	case mpd.CommandsResponse:
		for _, name := range v.Commands {
			if _, err := fmt.Fprintf(w, "command: %s\n", name); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unrenderable response type %T", record)
}

// writeAck renders an error as an ACK line; the connection stays open.
func writeAck(w io.Writer, verb string, listIndex int, err error) error {
	code := mpd.AckErrorSystem
	var inputErr *mpd.InputError
	var authErr *mpd.AuthNeededError
	switch {
	case errors.As(err, &inputErr):
		code = inputErr.Code
	case errors.As(err, &authErr):
		code = mpd.AckErrorPermission
	}
	_, werr := fmt.Fprintf(w, "ACK [%d@%d] {%s} %s\n", code, listIndex, verb, err.Error())
	return werr
}

func bool01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
