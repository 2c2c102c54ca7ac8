package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/okian/rating/internal/adapters/repository"
	"github.com/okian/rating/internal/domain/model"
	"github.com/okian/rating/internal/domain/types"
	"github.com/okian/rating/pkg/logger"
)

// updateRequest mirrors the OpenAPI schema for POST /update_score. Fields
// stay raw so type errors are reported per field.
type updateRequest struct {
	UserID json.RawMessage `json:"user_id"`
	Name   json.RawMessage `json:"name"`
	Score  json.RawMessage `json:"score"`
}

// record converts the request into a validated player record.
func (u updateRequest) record() (model.Record, error) {
	id, err := coerceUserID(u.UserID)
	if err != nil {
		return model.Record{}, err
	}
	name, err := decodeName(u.Name)
	if err != nil {
		return model.Record{}, err
	}
	score, err := decodeScore(u.Score)
	if err != nil {
		return model.Record{}, err
	}
	return model.NewRecord(id, name, score)
}

func absent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// coerceUserID accepts a JSON string or number. Integer literals keep their
// decimal digits; other numbers use formatFloatID.
func coerceUserID(raw json.RawMessage) (string, error) {
	if absent(raw) {
		return "", &model.ValidationError{Field: "user_id", Reason: "missing"}
	}
	t := bytes.TrimSpace(raw)
	switch {
	case t[0] == '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return "", &model.ValidationError{Field: "user_id", Reason: "must be a string or number"}
		}
		return s, nil
	case t[0] == '-' || (t[0] >= '0' && t[0] <= '9'):
		lit := string(t)
		if !strings.ContainsAny(lit, ".eE") {
			if lit == "-0" {
				return "0", nil
			}
			return lit, nil
		}
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return "", &model.ValidationError{Field: "user_id", Reason: "number out of range"}
		}
		return formatFloatID(f), nil
	default:
		return "", &model.ValidationError{Field: "user_id", Reason: "must be a string or number"}
	}
}

// formatFloatID renders a non-integer literal with the shortest digits that
// round-trip. Decimal exponents from -4 to 15 use fixed notation and always
// carry a fractional part (1.0, 1000.0); others use e-notation with a signed
// two-digit exponent (1e+16, 1e-05). 1 and 1.0 stay distinct ids.
func formatFloatID(f float64) string {
	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.LastIndexByte(e, 'e')+1:])
	if err != nil || exp < -4 || exp > 15 {
		return e
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func decodeName(raw json.RawMessage) (string, error) {
	if absent(raw) {
		return "", &model.ValidationError{Field: "name", Reason: "missing"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &model.ValidationError{Field: "name", Reason: "must be a string"}
	}
	return s, nil
}

func decodeScore(raw json.RawMessage) (float64, error) {
	if absent(raw) {
		return 0, &model.ValidationError{Field: "score", Reason: "missing"}
	}
	t := bytes.TrimSpace(raw)
	if t[0] != '-' && (t[0] < '0' || t[0] > '9') {
		return 0, &model.ValidationError{Field: "score", Reason: "must be a number"}
	}
	f, err := strconv.ParseFloat(string(t), 64)
	if err != nil {
		return 0, &model.ValidationError{Field: "score", Reason: "must be a finite number"}
	}
	return f, nil
}

// UpdateHandler handles score updates.
type UpdateHandler struct {
	deps         Dependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// NewUpdateHandler creates a new update handler.
func NewUpdateHandler(deps Dependencies, maxBodyBytes int64, l logger.Logger) *UpdateHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	if l == nil {
		l = logger.Nop()
	}
	return &UpdateHandler{deps: deps, maxBodyBytes: maxBodyBytes, logger: l}
}

// HandleUpdateScore handles POST /update_score requests.
func (h *UpdateHandler) HandleUpdateScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_score"

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn(r.Context(), "request body rejected", logger.Error(NewKind(op, ErrPayloadTooLarge)), logger.Any("limit", tooLarge.Limit))
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		h.logger.Warn(r.Context(), "request body unreadable", logger.Error(WrapKind(op, ErrBadRequest, err)))
		writeError(w, http.StatusBadRequest, "bad_request", "unreadable request body")
		return
	}

	var req updateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	rec, err := req.record()
	if err != nil {
		h.respondError(w, r, WrapKind(op, ErrValidation, err))
		return
	}

	if err := h.deps.UpdateScore(r.Context(), rec); err != nil {
		h.respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.UpdateResponse{Status: "ok"})
}

func (h *UpdateHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, h.logger, err)
}

// respondError maps domain error kinds to status codes. Validation messages
// are returned to the client; server-side causes are only logged.
func respondError(w http.ResponseWriter, r *http.Request, l logger.Logger, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "validation_error", ve.Error())
	case errors.Is(err, repository.ErrStorage):
		l.Error(r.Context(), "request failed", logger.String("request_id", RequestIDFromContext(r.Context())), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "storage_error", "player storage unavailable")
	default:
		l.Error(r.Context(), "request failed", logger.String("request_id", RequestIDFromContext(r.Context())), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}
