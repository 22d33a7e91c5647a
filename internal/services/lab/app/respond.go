package app

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/sanjayfuloria/simulation-game/internal/platform/errors"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a domain error to its HTTP status and a JSON body. Errors
// without a known code surface as 500 with a generic message so internals do
// not leak to clients.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := code.HTTPStatus()

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: string(code), Error: message})
}

// decodeJSON reads a request body into dst, rejecting malformed payloads with
// a coded error.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeRequestMalformed, "request body is not valid JSON", err)
	}
	return nil
}
