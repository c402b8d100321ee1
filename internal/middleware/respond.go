package middleware

import (
	"encoding/json"
	"net/http"

	apperr "github.com/ratewise/platform/internal/errors"
)

// writeServiceError renders a ServiceError as the standard JSON error
// envelope. Encoding failures are ignored; the status line already went
// out.
func writeServiceError(w http.ResponseWriter, svcErr *apperr.ServiceError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(svcErr.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{"error": svcErr})
}
