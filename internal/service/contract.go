package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
)

// DeleteSetRepository deletes a single set and its words.
type DeleteSetRepository interface {
	DeleteSet(ctx context.Context, setID uuid.UUID) error
}

// DeleteSetsRepository deletes several sets of one owner.
type DeleteSetsRepository interface {
	DeleteSets(ctx context.Context, userID string, setIDs []uuid.UUID) error
}

// DeleteWordRepository deletes a single word.
type DeleteWordRepository interface {
	DeleteWord(ctx context.Context, wordID uuid.UUID) error
}

// SetReader reads sets.
type SetReader interface {
	GetSetByID(ctx context.Context, id uuid.UUID) (*model.Set, error)
	ListSets(ctx context.Context, userID string, cursor string, limit int) ([]model.SetSummary, string, error)
}

// SetWriter creates and replaces sets.
type SetWriter interface {
	CreateSet(ctx context.Context, set *model.Set) error
	UpdateSet(ctx context.Context, set *model.Set) error
}

// WordReader reads single words.
type WordReader interface {
	GetWordByID(ctx context.Context, id uuid.UUID) (*model.Word, error)
}

// Store is the full storage contract satisfied by the postgres and memory repositories.
type Store interface {
	SetReader
	SetWriter
	WordReader
	DeleteSetRepository
	DeleteSetsRepository
	DeleteWordRepository
}

// SetCache is an optional read-through cache for sets.
type SetCache interface {
	GetSet(ctx context.Context, id uuid.UUID) (*model.Set, error)
	SetSet(ctx context.Context, set *model.Set) error
	DeleteSets(ctx context.Context, ids ...uuid.UUID) error
}
