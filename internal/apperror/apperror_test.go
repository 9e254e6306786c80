package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatusCode(t *testing.T) {
	cases := map[Kind]int{
		AuthenticationFailed: http.StatusBadRequest,
		BadRequest:           http.StatusBadRequest,
		Conflict:             http.StatusConflict,
		NotFound:             http.StatusNotFound,
		Unauthorized:         http.StatusUnauthorized,
		OperationFailed:      http.StatusInternalServerError,
		Internal:             http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, New(kind, "x", nil).StatusCode(), kind.String())
	}
}

func TestNewAuthenticationFailed_FixedMessage(t *testing.T) {
	assert.Equal(t, "Username or password is incorrect", NewAuthenticationFailed().Message)
}

func TestNewOperationFailed_CarriesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewOperationFailed("saving the user", cause)

	assert.Equal(t, "An error occurred while saving the user: connection reset", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestIs_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewConflict("Username bob is already taken"))

	assert.True(t, Is(err, Conflict))
	assert.False(t, Is(err, NotFound))
	assert.False(t, Is(errors.New("plain"), Conflict))
}

func TestWrite_AppError(t *testing.T) {
	rec := httptest.NewRecorder()

	Write(rec, zap.NewNop().Sugar(), NewNotFound("User not found."))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "User not found.", body.Message)
}

func TestWrite_PlainErrorIsHidden(t *testing.T) {
	rec := httptest.NewRecorder()

	Write(rec, nil, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Message)
}
