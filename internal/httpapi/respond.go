package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	apperr "github.com/ratewise/platform/internal/errors"
)

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.BadRequest("invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps any error onto the JSON error envelope. Non-service
// errors become opaque 500s.
func writeError(w http.ResponseWriter, err error) {
	var svcErr *apperr.ServiceError
	if !apperr.AsServiceError(err, &svcErr) {
		svcErr = apperr.Internal(err)
	}
	writeJSON(w, svcErr.HTTPStatus, map[string]interface{}{"error": svcErr})
}
