package command

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
)

// Entry is a single vocabulary item submitted as part of a set.
type Entry struct {
	Word         string   `json:"word" validate:"word"`
	WordType     string   `json:"wordType" validate:"required,wordtype"`
	Translations []string `json:"translations" validate:"translations,dive,translation"`
}

// CreateSetCommand is the input for creating a set.
// A zero value is structurally legal; Validate enforces the content rules.
type CreateSetCommand struct {
	SetName string  `json:"setName" validate:"setname"`
	Entries []Entry `json:"entries" validate:"entries,dive"`
}

// NewCreateSetCommand returns a command with an empty name and an empty, non-nil entry list.
func NewCreateSetCommand() CreateSetCommand {
	return CreateSetCommand{
		SetName: "",
		Entries: []Entry{},
	}
}

// Normalize trims whitespace and guarantees a non-nil entry list.
func (c *CreateSetCommand) Normalize() {
	c.SetName = strings.TrimSpace(c.SetName)
	c.Entries = normalizeEntries(c.Entries)
}

// Validate checks the command content.
func (c *CreateSetCommand) Validate() error {
	return validateStruct(c)
}

// UpdateSetCommand replaces the name and all entries of an existing set.
type UpdateSetCommand struct {
	SetID   uuid.UUID `json:"-"`
	SetName string    `json:"setName" validate:"setname"`
	Entries []Entry   `json:"entries" validate:"entries,dive"`
}

// NewUpdateSetCommand returns a command for setID with an empty, non-nil entry list.
func NewUpdateSetCommand(setID uuid.UUID) UpdateSetCommand {
	return UpdateSetCommand{
		SetID:   setID,
		Entries: []Entry{},
	}
}

// Normalize trims whitespace and guarantees a non-nil entry list.
func (c *UpdateSetCommand) Normalize() {
	c.SetName = strings.TrimSpace(c.SetName)
	c.Entries = normalizeEntries(c.Entries)
}

// Validate checks the command content.
func (c *UpdateSetCommand) Validate() error {
	if c.SetID == uuid.Nil {
		return &ValidationError{Fields: map[string]string{"setId": "is required"}}
	}
	return validateStruct(c)
}

// DeleteSetsCommand removes several sets of one owner at once.
type DeleteSetsCommand struct {
	IDs []uuid.UUID `json:"ids" validate:"bulkids"`
}

// Normalize removes duplicate and nil ids, keeping the first occurrence order.
func (c *DeleteSetsCommand) Normalize() {
	seen := make(map[uuid.UUID]struct{}, len(c.IDs))
	ids := make([]uuid.UUID, 0, len(c.IDs))
	for _, id := range c.IDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	c.IDs = ids
}

// Validate checks the command content.
func (c *DeleteSetsCommand) Validate() error {
	return validateStruct(c)
}

// ToWords converts entries to words of setID, assigning ids and positions
// in submission order.
func ToWords(setID uuid.UUID, entries []Entry) []model.Word {
	words := make([]model.Word, 0, len(entries))
	for i, e := range entries {
		translations := make([]string, len(e.Translations))
		copy(translations, e.Translations)

		words = append(words, model.Word{
			ID:           model.NewID(),
			SetID:        setID,
			Word:         e.Word,
			WordType:     e.WordType,
			Translations: translations,
			Position:     i,
		})
	}
	return words
}

func normalizeEntries(entries []Entry) []Entry {
	if entries == nil {
		return []Entry{}
	}

	for i := range entries {
		entries[i].Word = strings.TrimSpace(entries[i].Word)
		entries[i].WordType = strings.ToLower(strings.TrimSpace(entries[i].WordType))
		if entries[i].Translations == nil {
			entries[i].Translations = []string{}
		}
		for j := range entries[i].Translations {
			entries[i].Translations[j] = strings.TrimSpace(entries[i].Translations[j])
		}
	}
	return entries
}
