package repository

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
)

func TestCursor_RoundTrip(t *testing.T) {
	t.Parallel()

	in := &PaginationCursor{
		ID:        model.NewID(),
		CreatedAt: time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC),
	}

	out, err := DecodeCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("DecodeCursor failed: %v", err)
	}
	if out.ID != in.ID {
		t.Errorf("ID = %s, want %s", out.ID, in.ID)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", out.CreatedAt, in.CreatedAt)
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cursor string
	}{
		{"not base64", "!!!"},
		{"not json", base64.URLEncoding.EncodeToString([]byte("hello"))},
		{"empty object", base64.URLEncoding.EncodeToString([]byte("{}"))},
		{"bad uuid", base64.URLEncoding.EncodeToString([]byte(`{"id":"nope","created_at":"2024-01-01T00:00:00Z"}`))},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := DecodeCursor(tt.cursor); err == nil {
				t.Errorf("DecodeCursor(%q) expected error", tt.cursor)
			}
		})
	}
}

func TestDecodeCursor_ZeroValuesRejected(t *testing.T) {
	t.Parallel()

	raw := base64.URLEncoding.EncodeToString([]byte(`{"id":"00000000-0000-0000-0000-000000000000","created_at":"2024-01-01T00:00:00Z"}`))
	if _, err := DecodeCursor(raw); !errors.Is(err, ErrInvalidCursor) {
		t.Errorf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestClampListLimit(t *testing.T) {
	t.Parallel()

	tests := map[int]int{
		-5:               DefaultListLimit,
		0:                DefaultListLimit,
		1:                1,
		MaxListLimit:     MaxListLimit,
		MaxListLimit + 1: MaxListLimit,
	}
	for in, want := range tests {
		if got := ClampListLimit(in); got != want {
			t.Errorf("ClampListLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
