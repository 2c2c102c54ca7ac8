package loadcheck

import (
	"errors"
	"fmt"
)

// maxReported bounds the problems collected per kind.
const maxReported = 5

// verifyRating checks the rating against the last submitted record of every
// player: each appears exactly once with its final name and score, entries
// are ordered by score descending then user_id ascending, and ranks are
// dense. Entries for players this run did not submit are ignored only when
// allowForeign is set.
func verifyRating(expected map[string]Player, rating []Entry, allowForeign bool) error {
	var problems []error
	count := map[error]int{}
	add := func(kind error, format string, args ...any) {
		count[kind]++
		if count[kind] <= maxReported {
			problems = append(problems, fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)))
		}
	}

	seen := make(map[string]bool, len(rating))
	for i, e := range rating {
		if seen[e.UserID] {
			add(ErrDuplicate, "user_id %s at position %d", e.UserID, i)
		}
		seen[e.UserID] = true

		want, ok := expected[e.UserID]
		switch {
		case !ok && !allowForeign:
			add(ErrUnexpected, "user_id %s was never submitted", e.UserID)
		case ok && (want.Score != e.Score || want.Name != e.Name):
			add(ErrStaleRecord, "user_id %s has %q/%v, want %q/%v", e.UserID, e.Name, e.Score, want.Name, want.Score)
		}

		if i == 0 {
			if e.Rank != 1 {
				add(ErrRank, "first entry has rank %d", e.Rank)
			}
			continue
		}
		prev := rating[i-1]
		if prev.Score < e.Score || (prev.Score == e.Score && prev.UserID >= e.UserID) {
			add(ErrOrder, "position %d (%s, %v) after (%s, %v)", i, e.UserID, e.Score, prev.UserID, prev.Score)
		}
		wantRank := prev.Rank
		if prev.Score != e.Score {
			wantRank++
		}
		if e.Rank != wantRank {
			add(ErrRank, "user_id %s has rank %d, want %d", e.UserID, e.Rank, wantRank)
		}
	}

	for id := range expected {
		if !seen[id] {
			add(ErrLostUpdate, "user_id %s missing from rating", id)
		}
	}

	for kind, n := range count {
		if n > maxReported {
			problems = append(problems, fmt.Errorf("%w: %d more", kind, n-maxReported))
		}
	}
	return errors.Join(problems...)
}
