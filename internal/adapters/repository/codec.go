package repository

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/okian/rating/internal/domain/model"
)

const indent = "    "

// storedRecord is the on-disk value. The key of the enclosing object is the
// user_id; an embedded user_id, if present, is ignored.
type storedRecord struct {
	UserID *string  `json:"user_id,omitempty"`
	Name   *string  `json:"name"`
	Score  *float64 `json:"score"`
}

// encodeTable renders t as {"<user_id>": {"name": ..., "score": ...}}.
// Keys are emitted in sorted order so identical tables produce identical blobs.
func encodeTable(t model.Table) ([]byte, error) {
	out := make(map[string]storedRecord, len(t))
	for id, r := range t {
		name, score := r.Name, r.Score
		out[id] = storedRecord{Name: &name, Score: &score}
	}
	data, err := json.MarshalIndent(out, "", indent)
	if err != nil {
		return nil, fmt.Errorf("encode player table: %w", err)
	}
	return data, nil
}

// decodeTable parses a persisted blob. An empty blob is an empty table; any
// other content that is not a valid table wraps ErrCorrupt.
func decodeTable(data []byte) (model.Table, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return model.NewTable(), nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: top-level null", ErrCorrupt)
	}

	var raw map[string]*storedRecord
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	t := make(model.Table, len(raw))
	for id, sr := range raw {
		if sr == nil || sr.Name == nil || sr.Score == nil {
			return nil, fmt.Errorf("%w: entry %q is incomplete", ErrCorrupt, id)
		}
		// Shape only; stored names are not re-validated.
		t[id] = model.Record{UserID: id, Name: *sr.Name, Score: *sr.Score}
	}
	return t, nil
}
