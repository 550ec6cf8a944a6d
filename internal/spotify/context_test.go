package spotify

import "testing"

func TestPlayContext_PositionForID(t *testing.T) {
	ctx := NewPlayContext([]ContextItem{
		{ID: "a"},
		{ID: "b"},
		{ID: "c"},
		{ID: "b"}, // duplicate, first match wins
	})

	tests := []struct {
		id   string
		want int
	}{
		{"a", 0},
		{"b", 1},
		{"c", 2},
		{"missing", 0}, // fallback, indistinguishable from first track
	}
	for _, tt := range tests {
		if got := ctx.PositionForID(tt.id); got != tt.want {
			t.Errorf("PositionForID(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}

	if ctx.Size() != 4 {
		t.Errorf("Size() = %d, want 4", ctx.Size())
	}
}

func TestPlayContext_Empty(t *testing.T) {
	ctx := NewPlayContext(nil)

	if ctx.Size() != 0 {
		t.Errorf("Size() = %d, want 0", ctx.Size())
	}
	if got := ctx.PositionForID("anything"); got != 0 {
		t.Errorf("PositionForID() = %d on empty context, want 0", got)
	}
}
