// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
)

// DeleteSetsRequest is the body of POST /api/v1/sets/delete.
// IDs stay strings so malformed values can be reported per index.
type DeleteSetsRequest struct {
	IDs []string `json:"ids"`
}

// WordResponse represents a word in API responses.
type WordResponse struct {
	ID           string   `json:"id"`
	Word         string   `json:"word"`
	WordType     string   `json:"wordType"`
	Translations []string `json:"translations"`
}

// SetResponse represents a full set in API responses.
type SetResponse struct {
	ID        string         `json:"id"`
	SetName   string         `json:"setName"`
	Entries   []WordResponse `json:"entries"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// SetSummaryResponse represents a set in list responses.
type SetSummaryResponse struct {
	ID        string    `json:"id"`
	SetName   string    `json:"setName"`
	WordCount int       `json:"wordCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// SetListResponse represents a paginated list of sets.
type SetListResponse struct {
	Data       []SetSummaryResponse `json:"data"`
	Pagination *Pagination          `json:"pagination"`
}

// Pagination provides cursor-based pagination info.
type Pagination struct {
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ToSetResponse converts a Set model to SetResponse.
func ToSetResponse(set *model.Set) *SetResponse {
	entries := make([]WordResponse, len(set.Words))
	for i, w := range set.Words {
		translations := w.Translations
		if translations == nil {
			translations = []string{}
		}
		entries[i] = WordResponse{
			ID:           w.ID.String(),
			Word:         w.Word,
			WordType:     w.WordType,
			Translations: translations,
		}
	}
	return &SetResponse{
		ID:        set.ID.String(),
		SetName:   set.Name,
		Entries:   entries,
		CreatedAt: set.CreatedAt,
		UpdatedAt: set.UpdatedAt,
	}
}

// ToSetListResponse converts set summaries to SetListResponse.
func ToSetListResponse(sets []model.SetSummary, nextCursor string, hasMore bool) *SetListResponse {
	data := make([]SetSummaryResponse, len(sets))
	for i, s := range sets {
		data[i] = SetSummaryResponse{
			ID:        s.ID.String(),
			SetName:   s.Name,
			WordCount: s.WordCount,
			CreatedAt: s.CreatedAt,
		}
	}
	return &SetListResponse{
		Data: data,
		Pagination: &Pagination{
			NextCursor: nextCursor,
			HasMore:    hasMore,
		},
	}
}
