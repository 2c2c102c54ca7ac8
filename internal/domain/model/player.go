// Package model contains the player records persisted by the store.
package model

import "math"

// Record is a single player entry. UserID is the stable identity; Name and
// Score are replaced wholesale on every update.
type Record struct {
	UserID string
	Name   string
	Score  float64
}

// NewRecord builds a validated Record.
func NewRecord(userID, name string, score float64) (Record, error) {
	r := Record{UserID: userID, Name: name, Score: score}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks that score is a finite number. Empty strings are valid
// user ids and names; presence is checked where requests are decoded.
func (r Record) Validate() error {
	if math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
		return invalid("score", "must be a finite number")
	}
	return nil
}

// Table maps user_id to its record. It is the entire persisted state.
type Table map[string]Record

// NewTable returns an empty table.
func NewTable() Table {
	return make(Table)
}

// Len returns the number of players.
func (t Table) Len() int { return len(t) }

// Get returns the record stored under userID.
func (t Table) Get(userID string) (Record, bool) {
	r, ok := t[userID]
	return r, ok
}

// Clone returns a shallow copy; records are values so the copy is independent.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Records returns the records in unspecified order.
func (t Table) Records() []Record {
	out := make([]Record, 0, len(t))
	for _, r := range t {
		out = append(out, r)
	}
	return out
}

// Upsert returns a copy of t with r stored under r.UserID. The input table is
// never modified, so a validation failure leaves the caller's state as it was.
func Upsert(t Table, r Record) (Table, error) {
	if err := r.Validate(); err != nil {
		return t, err
	}
	out := t.Clone()
	out[r.UserID] = r
	return out, nil
}
