// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/command"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/metrics"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/repository"
)

// Service errors.
var (
	ErrSetNotFound   = repository.ErrSetNotFound
	ErrWordNotFound  = repository.ErrWordNotFound
	ErrSetNameExists = repository.ErrSetNameExists
	ErrInvalidCursor = repository.ErrInvalidCursor
	ErrMissingUser   = errors.New("user id is required")
)

// Pagination limits for ListSets.
const (
	DefaultListLimit = repository.DefaultListLimit
	MaxListLimit     = repository.MaxListLimit
)

// SetService handles set and word business logic.
type SetService struct {
	store   Store
	cache   SetCache
	metrics metrics.Recorder
	now     func() time.Time
}

// NewSetService creates a new SetService. setCache may be nil.
func NewSetService(store Store, setCache SetCache, recorder metrics.Recorder) *SetService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SetService{
		store:   store,
		cache:   setCache,
		metrics: recorder,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// ListSetsOutput is one page of a user's sets.
type ListSetsOutput struct {
	Sets       []model.SetSummary
	NextCursor string
	HasMore    bool
}

// CreateSet validates cmd and stores a new set owned by userID.
func (s *SetService) CreateSet(ctx context.Context, userID string, cmd command.CreateSetCommand) (*model.Set, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	set := &model.Set{
		ID:        model.NewID(),
		UserID:    userID,
		Name:      cmd.SetName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	set.Words = stampWords(command.ToWords(set.ID, cmd.Entries), now)

	if err := s.store.CreateSet(ctx, set); err != nil {
		return nil, err
	}

	s.metrics.IncSetCreated()
	return set, nil
}

// GetSet returns a set owned by userID. Sets of other users are reported as not found.
func (s *SetService) GetSet(ctx context.Context, userID string, setID uuid.UUID) (*model.Set, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	if s.cache != nil {
		cached, err := s.cache.GetSet(ctx, setID)
		if err == nil {
			s.metrics.IncSetCacheHit()
			if !cached.OwnedBy(userID) {
				return nil, ErrSetNotFound
			}
			return cached, nil
		}
		s.metrics.IncSetCacheMiss()
	}

	set, err := s.store.GetSetByID(ctx, setID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSet(ctx, set); err != nil {
			slog.Warn("failed to cache set", "set_id", setID, "error", err)
		}
	}

	if !set.OwnedBy(userID) {
		return nil, ErrSetNotFound
	}
	return set, nil
}

// ListSets returns a page of userID's sets, newest first.
func (s *SetService) ListSets(ctx context.Context, userID, cursor string, limit int) (*ListSetsOutput, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	sets, next, err := s.store.ListSets(ctx, userID, cursor, repository.ClampListLimit(limit))
	if err != nil {
		return nil, err
	}

	return &ListSetsOutput{
		Sets:       sets,
		NextCursor: next,
		HasMore:    next != "",
	}, nil
}

// UpdateSet replaces the name and entries of a set owned by userID.
func (s *SetService) UpdateSet(ctx context.Context, userID string, cmd command.UpdateSetCommand) (*model.Set, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	current, err := s.ownedSet(ctx, userID, cmd.SetID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated := &model.Set{
		ID:        current.ID,
		UserID:    current.UserID,
		Name:      cmd.SetName,
		CreatedAt: current.CreatedAt,
		UpdatedAt: now,
	}
	updated.Words = stampWords(command.ToWords(updated.ID, cmd.Entries), now)

	if err := s.store.UpdateSet(ctx, updated); err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated.ID)
	s.metrics.IncSetUpdated()
	return updated, nil
}

// DeleteSet deletes a set owned by userID together with its words.
func (s *SetService) DeleteSet(ctx context.Context, userID string, setID uuid.UUID) error {
	if userID == "" {
		return ErrMissingUser
	}

	if _, err := s.ownedSet(ctx, userID, setID); err != nil {
		return err
	}

	if err := s.store.DeleteSet(ctx, setID); err != nil {
		return err
	}

	s.invalidate(ctx, setID)
	s.metrics.IncSetsDeleted(1)
	return nil
}

// DeleteSets deletes the listed sets owned by userID. Ids that are missing or
// owned by someone else are skipped.
func (s *SetService) DeleteSets(ctx context.Context, userID string, cmd command.DeleteSetsCommand) error {
	if userID == "" {
		return ErrMissingUser
	}

	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := s.store.DeleteSets(ctx, userID, cmd.IDs); err != nil {
		return err
	}

	s.invalidate(ctx, cmd.IDs...)
	s.metrics.IncSetsDeleted(len(cmd.IDs))
	return nil
}

// DeleteWord deletes a word from a set owned by userID.
func (s *SetService) DeleteWord(ctx context.Context, userID string, wordID uuid.UUID) error {
	if userID == "" {
		return ErrMissingUser
	}

	word, err := s.store.GetWordByID(ctx, wordID)
	if err != nil {
		return err
	}

	if _, err := s.ownedSet(ctx, userID, word.SetID); err != nil {
		if errors.Is(err, ErrSetNotFound) {
			return ErrWordNotFound
		}
		return err
	}

	if err := s.store.DeleteWord(ctx, wordID); err != nil {
		return err
	}

	s.invalidate(ctx, word.SetID)
	s.metrics.IncWordDeleted()
	return nil
}

// ownedSet loads a set from storage and hides sets of other users.
func (s *SetService) ownedSet(ctx context.Context, userID string, setID uuid.UUID) (*model.Set, error) {
	set, err := s.store.GetSetByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	if !set.OwnedBy(userID) {
		return nil, ErrSetNotFound
	}
	return set, nil
}

// invalidate drops cached sets. Failures are logged; entries expire on their own.
func (s *SetService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if s.cache == nil || len(ids) == 0 {
		return
	}
	if err := s.cache.DeleteSets(context.WithoutCancel(ctx), ids...); err != nil {
		slog.Warn("failed to invalidate set cache", "count", len(ids), "error", err)
	}
}

func stampWords(words []model.Word, at time.Time) []model.Word {
	for i := range words {
		words[i].CreatedAt = at
	}
	return words
}
