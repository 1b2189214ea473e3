package validators

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/oid"
)

// ObjectIDParam reads a URL parameter and rejects anything that is not a
// 24-hex object id, before any store access happens.
func ObjectIDParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	id, err := oid.Parse(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]any{"field": name})
	}
	return id, nil
}
