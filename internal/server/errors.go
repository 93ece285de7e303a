package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/server/middleware"
)

// maxJSONBody caps ordinary JSON request bodies.
const maxJSONBody = 1 << 20

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// errorResponse maps err to its status and a user-facing message. Server-side
// failures are logged with the full cause; their message stays generic.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	kind := apperr.KindOf(err)

	event := s.logger.Debug()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(err).
		Str("request_id", middleware.GetRequestID(r)).
		Str("kind", string(kind)).
		Int("status", status).
		Msg("request failed")

	s.jsonResponse(w, status, ErrorResponse{Error: apperr.Message(err), Kind: string(kind)})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.New(apperr.KindValidation, "request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return apperr.New(apperr.KindValidation, "request body is required")
		default:
			return apperr.Wrap(apperr.KindValidation, err, "invalid JSON body")
		}
	}
	return nil
}

// pathID parses a UUID path parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.KindValidation, "invalid %s %q", name, raw)
	}
	return id, nil
}
