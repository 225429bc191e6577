package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coda0/coda/internal/router"
)

// maxBodyBytes caps request bodies. Editor payloads are source snippets,
// not file uploads.
const maxBodyBytes = 1 << 20

// requestHandler serves the structured action endpoint.
type requestHandler struct {
	router *router.Router
	logger *slog.Logger
}

// dispatch handles POST /api/v1/requests.
//
// Status mapping:
//   - 200: routed reply, including the unrecognized-action error body
//   - 400: malformed JSON or no action field
//   - 413: body over maxBodyBytes
//   - 502: the model call failed
func (h *requestHandler) dispatch(w http.ResponseWriter, r *http.Request) {
	var req router.Request

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}

	resp, err := h.router.Route(r.Context(), req)
	switch {
	case errors.Is(err, router.ErrMissingAction):
		writeError(w, http.StatusBadRequest, "missing required field: action", h.logger)
	case err != nil:
		requestID, _ := requestIDFromContext(r.Context())
		h.logger.Error("routing request failed",
			"request_id", requestID,
			"action", req.Action,
			"error", err,
		)
		writeError(w, http.StatusBadGateway, err.Error(), h.logger)
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

// listActions handles GET /api/v1/actions so editor clients can discover
// the recognized action names.
func (h *requestHandler) listActions(w http.ResponseWriter, _ *http.Request) {
	actions := router.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"actions": names})
}
