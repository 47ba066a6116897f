package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSet_OwnedBy(t *testing.T) {
	t.Parallel()

	set := &Set{ID: NewID(), UserID: "user-1"}

	if !set.OwnedBy("user-1") {
		t.Error("expected set to be owned by user-1")
	}
	if set.OwnedBy("user-2") {
		t.Error("expected set not to be owned by user-2")
	}
	if set.OwnedBy("") {
		t.Error("expected empty user not to own the set")
	}
}

func TestNormalizeSetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normal", "animals", "animals"},
		{"mixed case", "Animals", "animals"},
		{"surrounding spaces", "  Animals  ", "animals"},
		{"inner spaces kept", "Irregular Verbs", "irregular verbs"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeSetName(tt.in); got != tt.want {
				t.Errorf("NormalizeSetName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSet_Summary(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	set := &Set{
		ID:        NewID(),
		UserID:    "user-1",
		Name:      "Animals",
		CreatedAt: created,
		Words: []Word{
			{Word: "cat", WordType: WordTypeNoun, Translations: []string{"gato"}},
			{Word: "dog", WordType: WordTypeNoun, Translations: []string{"perro"}},
		},
	}

	summary := set.Summary()
	if summary.ID != set.ID {
		t.Errorf("ID = %s, want %s", summary.ID, set.ID)
	}
	if summary.Name != "Animals" {
		t.Errorf("Name = %q, want %q", summary.Name, "Animals")
	}
	if summary.WordCount != 2 {
		t.Errorf("WordCount = %d, want 2", summary.WordCount)
	}
	if !summary.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", summary.CreatedAt, created)
	}
}

func TestNewID_Unique(t *testing.T) {
	t.Parallel()

	const n = 1000
	seen := make(map[uuid.UUID]bool, n)
	for i := 0; i < n; i++ {
		id := NewID()
		if id == uuid.Nil {
			t.Fatal("NewID returned nil UUID")
		}
		if seen[id] {
			t.Fatalf("duplicate id at iteration %d: %s", i, id)
		}
		seen[id] = true
	}
}

func TestNewID_EncodesTime(t *testing.T) {
	t.Parallel()

	before := uint64(time.Now().UnixMilli())
	id := NewID()
	after := uint64(time.Now().UnixMilli())

	ts := IDTime(id)
	if ts < before || ts > after {
		t.Errorf("IDTime = %d, want between %d and %d", ts, before, after)
	}

	parsed, err := uuid.Parse(id.String())
	if err != nil {
		t.Fatalf("NewID should round-trip through uuid.Parse: %v", err)
	}
	if parsed != id {
		t.Errorf("parsed = %s, want %s", parsed, id)
	}
}
