package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.NewValidationError("username is required"), http.StatusBadRequest, "validation failed"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"wrapped token", fmt.Errorf("%w: signature is invalid", domain.ErrInvalidToken), http.StatusUnauthorized, "authentication required"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"user missing", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"product missing", fmt.Errorf("get: %w", domain.ErrProductNotFound), http.StatusNotFound, "product not found"},
		{"user conflict", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"product conflict", domain.ErrProductExists, http.StatusConflict, "product already exists"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed, "method not allowed"},
		{"unknown", errors.New("mongo: connection reset at 10.0.0.3"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.New(&logs))(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, resp.Error)
			}

			challenge := rec.Header().Get(echo.HeaderWWWAuthenticate)
			if (tc.code == http.StatusUnauthorized) != strings.HasPrefix(challenge, "Bearer") {
				t.Fatalf("unexpected WWW-Authenticate %q for %d", challenge, tc.code)
			}

			if tc.code == http.StatusInternalServerError {
				if strings.Contains(rec.Body.String(), "10.0.0.3") {
					t.Fatalf("internal cause leaked: %s", rec.Body.String())
				}
				if !strings.Contains(logs.String(), "10.0.0.3") {
					t.Fatalf("internal cause not logged: %s", logs.String())
				}
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.NewValidationError("username is required", "password is required"), c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Details) != 2 || resp.Details[0] != "username is required" {
		t.Fatalf("unexpected details: %+v", resp.Details)
	}
}
