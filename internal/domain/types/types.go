// Package types contains the wire types shared by the HTTP layer and tools.
package types

import "github.com/okian/rating/internal/domain/ranking"

// Entry represents one row of the /rating response.
type Entry struct {
	Rank   int     `json:"rank"`
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
}

// UpdateResponse is the body returned by a successful /update_score.
type UpdateResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body returned for any failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FromRanking converts ranked entries to their wire form. A nil input yields
// an empty, non-nil slice so it encodes as [].
func FromRanking(in []ranking.Entry) []Entry {
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		out = append(out, Entry{Rank: e.Rank, UserID: e.UserID, Name: e.Name, Score: e.Score})
	}
	return out
}
