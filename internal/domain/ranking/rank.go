// Package ranking orders player records for the rating view.
//
// Ordering: score DESC, then user_id ASC. The secondary key makes the order
// deterministic for equal scores and is shared by Rank and Index.
package ranking

import (
	"sort"

	"github.com/okian/rating/internal/domain/model"
)

// Entry is a ranked record.
type Entry struct {
	Rank   int
	UserID string
	Name   string
	Score  float64
}

// less returns true if a should appear before b in the rating.
func less(aScore float64, aID string, bScore float64, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

// Rank returns all records of t sorted by score descending.
func Rank(t model.Table) []model.Record {
	out := t.Records()
	sort.Slice(out, func(i, j int) bool {
		return less(out[i].Score, out[i].UserID, out[j].Score, out[j].UserID)
	})
	return out
}

// Assign numbers records that are already in rank order. Equal scores share
// a rank and the next distinct score takes the following rank.
func Assign(records []model.Record) []Entry {
	out := make([]Entry, len(records))
	rank := 0
	for i, r := range records {
		if i == 0 || r.Score != records[i-1].Score {
			rank++
		}
		out[i] = Entry{Rank: rank, UserID: r.UserID, Name: r.Name, Score: r.Score}
	}
	return out
}
