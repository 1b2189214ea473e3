package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
)

func requestWithIDParam(t *testing.T, value string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/restaurants/"+value, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestObjectIDParamValid(t *testing.T) {
	id, err := ObjectIDParam(requestWithIDParam(t, "64F1C2D3E4A5B60718293A4B"), "id")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != "64f1c2d3e4a5b60718293a4b" {
		t.Fatalf("expected lowercased id, got %q", id)
	}
}

func TestObjectIDParamInvalid(t *testing.T) {
	for _, raw := range []string{"not-hex", "12345", ""} {
		_, err := ObjectIDParam(requestWithIDParam(t, raw), "id")
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
}
