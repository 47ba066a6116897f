package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
)

// Common errors for set repository operations.
var (
	ErrSetNotFound   = errors.New("set not found")
	ErrSetNameExists = errors.New("set name already exists")
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)

// PaginationCursor represents decoded cursor for pagination.
type PaginationCursor struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

const insertWordSQL = `
	INSERT INTO words (id, set_id, word, word_type, translations, position, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// CreateSet inserts a set and its words in a single transaction.
func (r *Repository) CreateSet(ctx context.Context, set *model.Set) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO sets (id, user_id, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, query, set.ID, set.UserID, set.Name, set.CreatedAt, set.UpdatedAt); err != nil {
			return err
		}
		return insertWords(ctx, tx, set.Words)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSetNameExists
		}
		return fmt.Errorf("failed to create set: %w", err)
	}

	return nil
}

// GetSetByID retrieves a set with its words ordered by position.
func (r *Repository) GetSetByID(ctx context.Context, id uuid.UUID) (*model.Set, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM sets
		WHERE id = $1
	`

	var set model.Set
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&set.ID,
		&set.UserID,
		&set.Name,
		&set.CreatedAt,
		&set.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, fmt.Errorf("failed to get set by ID: %w", err)
	}

	words, err := r.listWordsBySetID(ctx, id)
	if err != nil {
		return nil, err
	}
	set.Words = words

	return &set, nil
}

// ListSets retrieves a page of a user's sets, newest first.
func (r *Repository) ListSets(ctx context.Context, userID string, cursor string, limit int) ([]model.SetSummary, string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}
	limit = ClampListLimit(limit)

	var cursorData *PaginationCursor
	if cursor != "" {
		var err error
		cursorData, err = DecodeCursor(cursor)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
	}

	query := `
		SELECT s.id, s.name, s.created_at, COUNT(w.id)
		FROM sets s
		LEFT JOIN words w ON w.set_id = s.id
		WHERE s.user_id = $1
	`
	args := []any{userID}
	argIndex := 2

	if cursorData != nil {
		query += fmt.Sprintf(" AND (s.created_at, s.id) < ($%d, $%d)", argIndex, argIndex+1)
		args = append(args, cursorData.CreatedAt, cursorData.ID)
		argIndex += 2
	}

	query += fmt.Sprintf(" GROUP BY s.id ORDER BY s.created_at DESC, s.id DESC LIMIT $%d", argIndex)
	args = append(args, limit+1) // Fetch one extra to determine hasMore

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list sets: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.SetSummary, 0, limit)
	for rows.Next() {
		var s model.SetSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.WordCount); err != nil {
			return nil, "", fmt.Errorf("failed to scan set: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating sets: %w", err)
	}

	var nextCursor string
	if len(summaries) > limit {
		summaries = summaries[:limit]
		last := summaries[len(summaries)-1]
		nextCursor = EncodeCursor(&PaginationCursor{ID: last.ID, CreatedAt: last.CreatedAt})
	}

	return summaries, nextCursor, nil
}

// UpdateSet renames a set and replaces all of its words.
func (r *Repository) UpdateSet(ctx context.Context, set *model.Set) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE sets
			SET name = $2, updated_at = $3
			WHERE id = $1
		`
		result, err := tx.Exec(ctx, query, set.ID, set.Name, set.UpdatedAt)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrSetNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM words WHERE set_id = $1`, set.ID); err != nil {
			return err
		}
		return insertWords(ctx, tx, set.Words)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSetNotFound):
			return ErrSetNotFound
		case isUniqueViolation(err):
			return ErrSetNameExists
		}
		return fmt.Errorf("failed to update set: %w", err)
	}

	return nil
}

// DeleteSet removes a set. Its words are removed by ON DELETE CASCADE.
func (r *Repository) DeleteSet(ctx context.Context, setID uuid.UUID) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	result, err := r.pool.Exec(ctx, `DELETE FROM sets WHERE id = $1`, setID)
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSetNotFound
	}

	return nil
}

// DeleteSets removes the given sets owned by userID in one statement.
// Ids that do not exist or belong to another user are skipped.
func (r *Repository) DeleteSets(ctx context.Context, userID string, setIDs []uuid.UUID) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if len(setIDs) == 0 {
		return nil
	}

	ids := make([]string, len(setIDs))
	for i, id := range setIDs {
		ids[i] = id.String()
	}

	query := `
		DELETE FROM sets
		WHERE user_id = $1 AND id = ANY($2::uuid[])
	`

	if _, err := r.pool.Exec(ctx, query, userID, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to delete sets: %w", err)
	}

	return nil
}

// insertWords queues all word inserts in one batch on tx.
func insertWords(ctx context.Context, tx pgx.Tx, words []model.Word) error {
	if len(words) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, w := range words {
		batch.Queue(insertWordSQL,
			w.ID,
			w.SetID,
			w.Word,
			w.WordType,
			pq.Array(w.Translations),
			w.Position,
			w.CreatedAt,
		)
	}

	return tx.SendBatch(ctx, batch).Close()
}

// EncodeCursor encodes pagination cursor to base64.
func EncodeCursor(cursor *PaginationCursor) string {
	data, _ := json.Marshal(cursor)
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor decodes base64 pagination cursor.
func DecodeCursor(s string) (*PaginationCursor, error) {
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	var cursor PaginationCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, err
	}
	if cursor.ID == uuid.Nil || cursor.CreatedAt.IsZero() {
		return nil, ErrInvalidCursor
	}

	return &cursor, nil
}

// Page size bounds for ListSets.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ClampListLimit maps a requested page size into [1, MaxListLimit].
// Non-positive values select DefaultListLimit.
func ClampListLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
