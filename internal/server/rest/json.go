package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/bookmarker/internal/server/validation"
)

const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error   string                  `json:"error"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// decodeJSON reads exactly one JSON object into dst. Unknown fields, an
// empty body and trailing data are rejected as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return validation.Errors{{Message: "Request body is empty."}}
		}
		return validation.Errors{{Message: fmt.Sprintf("Malformed JSON: %v.", err)}}
	}
	if dec.More() {
		return validation.Errors{{Message: "Request body must contain a single JSON object."}}
	}
	return nil
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// client went away; nothing left to do
	_, _ = buf.WriteTo(w)
}
