package mpd

import (
	"errors"
	"testing"
	"time"
)

func TestFromTokens(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   Command
	}{
		{"status", []string{"status"}, StatusCommand{}},
		{"currentsong", []string{"currentsong"}, CurrentSongCommand{}},
		{"play bare", []string{"play"}, PlayCommand{}},
		{"pause bare toggles", []string{"pause"}, PauseCommand{}},
		{"stop", []string{"stop"}, StopCommand{}},
		{"next", []string{"next"}, NextCommand{}},
		{"random on", []string{"random", "1"}, RandomCommand{State: true}},
		{"repeat off", []string{"repeat", "0"}, RepeatCommand{State: false}},
		{"single on", []string{"single", "1"}, SingleCommand{State: true}},
		{"setvol", []string{"setvol", "55"}, SetVolCommand{Volume: 55}},
		{"seekcur", []string{"seekcur", "12.5"}, SeekCurCommand{Position: 12500 * time.Millisecond}},
		{"idle all", []string{"idle"}, IdleCommand{Subsystems: []IdleSubsystem{}}},
		{"noidle", []string{"noidle"}, NoIdleCommand{}},
		{"outputs", []string{"outputs"}, OutputsCommand{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromTokens(tt.tokens)
			if err != nil {
				t.Fatalf("FromTokens(%v) error: %v", tt.tokens, err)
			}
			if Name(got) != Name(tt.want) {
				t.Fatalf("FromTokens(%v) = %T, want %T", tt.tokens, got, tt.want)
			}
			switch want := tt.want.(type) {
			case RandomCommand:
				if got.(RandomCommand).State != want.State {
					t.Errorf("state = %v, want %v", got.(RandomCommand).State, want.State)
				}
			case SetVolCommand:
				if got.(SetVolCommand).Volume != want.Volume {
					t.Errorf("volume = %d, want %d", got.(SetVolCommand).Volume, want.Volume)
				}
			case SeekCurCommand:
				if got.(SeekCurCommand).Position != want.Position {
					t.Errorf("position = %v, want %v", got.(SeekCurCommand).Position, want.Position)
				}
			}
		})
	}
}

func TestFromTokens_PlayWithPosition(t *testing.T) {
	cmd, err := FromTokens([]string{"play", "3"})
	if err != nil {
		t.Fatalf("FromTokens error: %v", err)
	}
	play := cmd.(PlayCommand)
	if play.Pos == nil || *play.Pos != 3 {
		t.Errorf("pos = %v, want 3", play.Pos)
	}
}

func TestFromTokens_IdleSubsystems(t *testing.T) {
	cmd, err := FromTokens([]string{"idle", "player", "options"})
	if err != nil {
		t.Fatalf("FromTokens error: %v", err)
	}
	subs := cmd.(IdleCommand).Subsystems
	if len(subs) != 2 || subs[0] != SubsystemPlayer || subs[1] != SubsystemOptions {
		t.Errorf("subsystems = %v", subs)
	}
}

func TestFromTokens_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		code   AckCode
	}{
		{"unknown verb", []string{"shoutcast"}, AckErrorUnknown},
		{"empty", nil, AckErrorUnknown},
		{"bad bool", []string{"random", "yes"}, AckErrorArg},
		{"missing arg", []string{"setvol"}, AckErrorArg},
		{"volume out of range", []string{"setvol", "150"}, AckErrorArg},
		{"negative seek", []string{"seekcur", "-4"}, AckErrorArg},
		{"bad subsystem", []string{"idle", "sticker"}, AckErrorArg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromTokens(tt.tokens)
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("FromTokens(%v) error = %v, want InputError", tt.tokens, err)
			}
			if inputErr.Code != tt.code {
				t.Errorf("code = %d, want %d", inputErr.Code, tt.code)
			}
		})
	}
}
