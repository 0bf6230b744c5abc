package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/google/uuid"
)

// Computer runs one frost depth computation. *Calculator implements it.
type Computer interface {
	Compute(ctx context.Context, req domain.Request) (domain.Result, error)
}

// errorPayload is published in place of a result when a computation fails.
type errorPayload struct {
	ID    string           `json:"id,omitempty"`
	Kind  domain.ErrorKind `json:"kind"`
	Error string           `json:"error"`
}

// RequestTransformer implements Transformer: it decodes a JSON request,
// computes it, and encodes the result. Failed computations produce an
// error message rather than a result, so every request gets an answer.
type RequestTransformer struct {
	computer Computer
	logger   *slog.Logger
}

// NewTransformer creates a RequestTransformer.
func NewTransformer(computer Computer, logger *slog.Logger) *RequestTransformer {
	return &RequestTransformer{
		computer: computer,
		logger:   logger,
	}
}

// Transform returns an error only for messages that are not JSON requests.
func (t *RequestTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	var req domain.Request
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return domain.OutputMessage{}, fmt.Errorf("parse request: %w", err)
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	res, err := t.computer.Compute(ctx, req)
	if err != nil {
		t.logger.Debug("answering request with error", "id", req.ID, "offset", raw.Offset, "error", err)
		return errorMessage(req.ID, err)
	}
	return resultMessage(res)
}

func resultMessage(res domain.Result) (domain.OutputMessage, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return domain.OutputMessage{}, fmt.Errorf("serialize result: %w", err)
	}
	return domain.OutputMessage{
		Key:   []byte(res.ID),
		Value: data,
		Headers: map[string]string{
			"status":      "ok",
			"mode":        string(res.Mode),
			"computed_at": res.ComputedAt.Format(time.RFC3339),
		},
	}, nil
}

func errorMessage(id string, cause error) (domain.OutputMessage, error) {
	kind := domain.KindOf(cause)
	data, err := json.Marshal(errorPayload{ID: id, Kind: kind, Error: cause.Error()})
	if err != nil {
		return domain.OutputMessage{}, fmt.Errorf("serialize error result: %w", err)
	}
	return domain.OutputMessage{
		Key:   []byte(id),
		Value: data,
		Headers: map[string]string{
			"status": "error",
			"kind":   string(kind),
		},
	}, nil
}
