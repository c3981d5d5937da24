package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

// QueryLimit reads an optional numeric limit parameter. Zero means "not
// provided"; callers pass it through pagination.NormalizeLimit. Values above
// max are clamped rather than rejected so oversized limits degrade gracefully.
func QueryLimit(r *http.Request, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a non-negative integer")
	}
	if value > max {
		return max, nil
	}
	return value, nil
}

// QueryFlag reports whether a presence-style boolean parameter is set.
// Any value other than an explicit "false"/"0" counts as set.
func QueryFlag(r *http.Request, key string) bool {
	if !r.URL.Query().Has(key) {
		return false
	}
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return raw != "false" && raw != "0"
}
