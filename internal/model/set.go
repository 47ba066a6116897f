// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WordType constants describe the grammatical class of a word.
const (
	WordTypeNoun      = "noun"
	WordTypeVerb      = "verb"
	WordTypeAdjective = "adjective"
	WordTypeAdverb    = "adverb"
	WordTypeOther     = "other"
)

// ValidWordTypes contains all accepted word type values.
var ValidWordTypes = []string{WordTypeNoun, WordTypeVerb, WordTypeAdjective, WordTypeAdverb, WordTypeOther}

// Set is a named collection of words owned by a user.
type Set struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Words     []Word    `json:"words"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the set belongs to userID.
func (s *Set) OwnedBy(userID string) bool {
	return s.UserID == userID
}

// NormalizedName is the name used for per-user uniqueness checks.
func (s *Set) NormalizedName() string {
	return NormalizeSetName(s.Name)
}

// NormalizeSetName trims and lowercases a set name.
func NormalizeSetName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Word is a persisted vocabulary entry inside a set.
type Word struct {
	ID           uuid.UUID `json:"id"`
	SetID        uuid.UUID `json:"set_id"`
	Word         string    `json:"word"`
	WordType     string    `json:"word_type"`
	Translations []string  `json:"translations"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetSummary is the list view of a set, without its words.
type SetSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns the list view of the set.
func (s *Set) Summary() SetSummary {
	return SetSummary{
		ID:        s.ID,
		Name:      s.Name,
		WordCount: len(s.Words),
		CreatedAt: s.CreatedAt,
	}
}
