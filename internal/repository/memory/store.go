// Package memory provides an in-process implementation of the set and word
// repositories. It backs the "memory" storage driver and service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/repository"
)

// Store keeps sets and words in maps guarded by a single RWMutex.
type Store struct {
	mu    sync.RWMutex
	sets  map[uuid.UUID]*model.Set
	words map[uuid.UUID]uuid.UUID // word id -> set id
	now   func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		sets:  make(map[uuid.UUID]*model.Set),
		words: make(map[uuid.UUID]uuid.UUID),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return checkContext(ctx)
}

// CreateSet stores a copy of set and its words.
func (s *Store) CreateSet(ctx context.Context, set *model.Set) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sets[set.ID]; ok {
		return fmt.Errorf("failed to create set: duplicate id %s", set.ID)
	}
	if s.nameTakenLocked(set.UserID, set.NormalizedName(), uuid.Nil) {
		return repository.ErrSetNameExists
	}

	stored := cloneSet(set)
	s.sets[stored.ID] = stored
	for _, w := range stored.Words {
		s.words[w.ID] = stored.ID
	}

	return nil
}

// GetSetByID returns a copy of the set with words ordered by position.
func (s *Store) GetSetByID(ctx context.Context, id uuid.UUID) (*model.Set, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[id]
	if !ok {
		return nil, repository.ErrSetNotFound
	}

	return cloneSet(set), nil
}

// ListSets returns a page of the user's sets, newest first.
func (s *Store) ListSets(ctx context.Context, userID string, cursor string, limit int) ([]model.SetSummary, string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}
	limit = repository.ClampListLimit(limit)

	var after *repository.PaginationCursor
	if cursor != "" {
		c, err := repository.DecodeCursor(cursor)
		if err != nil {
			return nil, "", repository.ErrInvalidCursor
		}
		after = c
	}

	s.mu.RLock()
	owned := make([]model.SetSummary, 0)
	for _, set := range s.sets {
		if set.OwnedBy(userID) {
			owned = append(owned, set.Summary())
		}
	}
	s.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		return newer(owned[i], owned[j].CreatedAt, owned[j].ID)
	})

	page := make([]model.SetSummary, 0, limit)
	for _, summary := range owned {
		if after != nil && !newer(model.SetSummary{ID: after.ID, CreatedAt: after.CreatedAt}, summary.CreatedAt, summary.ID) {
			continue
		}
		page = append(page, summary)
		if len(page) > limit {
			break
		}
	}

	var next string
	if len(page) > limit {
		page = page[:limit]
		last := page[len(page)-1]
		next = repository.EncodeCursor(&repository.PaginationCursor{ID: last.ID, CreatedAt: last.CreatedAt})
	}

	return page, next, nil
}

// UpdateSet replaces the name and words of an existing set.
func (s *Store) UpdateSet(ctx context.Context, set *model.Set) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sets[set.ID]
	if !ok {
		return repository.ErrSetNotFound
	}
	if s.nameTakenLocked(current.UserID, set.NormalizedName(), set.ID) {
		return repository.ErrSetNameExists
	}

	for _, w := range current.Words {
		delete(s.words, w.ID)
	}

	updated := cloneSet(set)
	updated.UserID = current.UserID
	updated.CreatedAt = current.CreatedAt
	s.sets[updated.ID] = updated
	for _, w := range updated.Words {
		s.words[w.ID] = updated.ID
	}

	return nil
}

// DeleteSet removes a set together with its words.
func (s *Store) DeleteSet(ctx context.Context, setID uuid.UUID) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sets[setID]; !ok {
		return repository.ErrSetNotFound
	}
	s.deleteSetLocked(setID)

	return nil
}

// DeleteSets removes the listed sets owned by userID. Others are skipped.
func (s *Store) DeleteSets(ctx context.Context, userID string, setIDs []uuid.UUID) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range setIDs {
		set, ok := s.sets[id]
		if !ok || !set.OwnedBy(userID) {
			continue
		}
		s.deleteSetLocked(id)
	}

	return nil
}

// GetWordByID returns a copy of a single word.
func (s *Store) GetWordByID(ctx context.Context, id uuid.UUID) (*model.Word, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	setID, ok := s.words[id]
	if !ok {
		return nil, repository.ErrWordNotFound
	}
	for _, w := range s.sets[setID].Words {
		if w.ID == id {
			word := cloneWord(w)
			return &word, nil
		}
	}

	return nil, repository.ErrWordNotFound
}

// DeleteWord removes a word and bumps its set's UpdatedAt.
func (s *Store) DeleteWord(ctx context.Context, wordID uuid.UUID) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	setID, ok := s.words[wordID]
	if !ok {
		return repository.ErrWordNotFound
	}

	set := s.sets[setID]
	words := make([]model.Word, 0, len(set.Words))
	for _, w := range set.Words {
		if w.ID != wordID {
			words = append(words, w)
		}
	}
	set.Words = words
	set.UpdatedAt = s.now()
	delete(s.words, wordID)

	return nil
}

// Len returns the number of stored sets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets)
}

func (s *Store) deleteSetLocked(id uuid.UUID) {
	for _, w := range s.sets[id].Words {
		delete(s.words, w.ID)
	}
	delete(s.sets, id)
}

// nameTakenLocked reports whether another set of userID already uses name.
func (s *Store) nameTakenLocked(userID, name string, except uuid.UUID) bool {
	for id, set := range s.sets {
		if id != except && set.OwnedBy(userID) && set.NormalizedName() == name {
			return true
		}
	}
	return false
}

// newer reports whether a sorts before (createdAt, id) in newest-first order.
func newer(a model.SetSummary, createdAt time.Time, id uuid.UUID) bool {
	if !a.CreatedAt.Equal(createdAt) {
		return a.CreatedAt.After(createdAt)
	}
	return compareIDs(a.ID, id) > 0
}

func compareIDs(a, b uuid.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("operation cancelled: %w", err)
	}
	return nil
}

func cloneSet(set *model.Set) *model.Set {
	out := *set
	out.Words = make([]model.Word, len(set.Words))
	for i, w := range set.Words {
		out.Words[i] = cloneWord(w)
	}
	sort.SliceStable(out.Words, func(i, j int) bool {
		return out.Words[i].Position < out.Words[j].Position
	})
	return &out
}

func cloneWord(w model.Word) model.Word {
	w.Translations = append([]string{}, w.Translations...)
	return w
}
