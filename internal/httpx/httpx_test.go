package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func decodeFailure(t *testing.T, w *httptest.ResponseRecorder) FailureResponse {
	t.Helper()
	var body FailureResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHandle_MapsDeclaredStatus(t *testing.T) {
	h := Handle(func(w http.ResponseWriter, r *http.Request) error {
		return NotFound("project not found")
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeFailure(t, w)
	require.False(t, body.Success)
	require.Equal(t, "project not found", body.Message)
}

func TestHandle_WrapsUnexpectedErrors(t *testing.T) {
	h := Handle(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("mongo exploded")
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeFailure(t, w)
	require.Equal(t, "internal server error", body.Message)
	require.NotContains(t, w.Body.String(), "mongo")
}

func TestHandle_NilErrorWritesNothing(t *testing.T) {
	h := Handle(func(w http.ResponseWriter, r *http.Request) error {
		JSON(w, http.StatusOK, map[string]bool{"success": true})
		return nil
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"success":true`)
}

func TestHandle_WrappedError(t *testing.T) {
	h := Handle(func(w http.ResponseWriter, r *http.Request) error {
		return BadRequest("email is required")
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFromValidation(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
	}
	v := validator.New()

	err := v.Struct(form{})
	appErr := FromValidation(err)
	require.Equal(t, http.StatusBadRequest, appErr.Status)
	require.Equal(t, "email is required", appErr.Message)

	err = v.Struct(form{Email: "not-an-email"})
	appErr = FromValidation(err)
	require.Equal(t, "email is invalid", appErr.Message)
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	appErr := Internal("failed", inner)
	require.ErrorIs(t, appErr, inner)
	require.Contains(t, appErr.Error(), "boom")
}
