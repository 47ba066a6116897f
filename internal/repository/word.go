package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
)

// Common errors for word repository operations.
var (
	ErrWordNotFound = errors.New("word not found")
)

// GetWordByID retrieves a single word.
func (r *Repository) GetWordByID(ctx context.Context, id uuid.UUID) (*model.Word, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, set_id, word, word_type, translations, position, created_at
		FROM words
		WHERE id = $1
	`

	word, err := scanWord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWordNotFound
		}
		return nil, fmt.Errorf("failed to get word by ID: %w", err)
	}

	return word, nil
}

// DeleteWord removes a word and bumps its set's updated_at.
func (r *Repository) DeleteWord(ctx context.Context, wordID uuid.UUID) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var setID uuid.UUID
		err := tx.QueryRow(ctx, `DELETE FROM words WHERE id = $1 RETURNING set_id`, wordID).Scan(&setID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrWordNotFound
			}
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE sets SET updated_at = NOW() WHERE id = $1`, setID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrWordNotFound) {
			return ErrWordNotFound
		}
		return fmt.Errorf("failed to delete word: %w", err)
	}

	return nil
}

// listWordsBySetID returns the words of a set ordered by position.
func (r *Repository) listWordsBySetID(ctx context.Context, setID uuid.UUID) ([]model.Word, error) {
	query := `
		SELECT id, set_id, word, word_type, translations, position, created_at
		FROM words
		WHERE set_id = $1
		ORDER BY position ASC
	`

	rows, err := r.pool.Query(ctx, query, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	defer rows.Close()

	words := make([]model.Word, 0)
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, *word)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating words: %w", err)
	}

	return words, nil
}

// scanWord scans a single row into a Word model.
func scanWord(row pgx.Row) (*model.Word, error) {
	var word model.Word
	var translations []string

	err := row.Scan(
		&word.ID,
		&word.SetID,
		&word.Word,
		&word.WordType,
		pq.Array(&translations),
		&word.Position,
		&word.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if translations == nil {
		translations = []string{}
	}
	word.Translations = translations
	return &word, nil
}
