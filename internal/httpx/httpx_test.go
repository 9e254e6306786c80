package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/apperror"
)

type payload struct {
	Username string `json:"username" validate:"required,max=5"`
	Kind     string `json:"kind" validate:"omitempty,oneof=a b"`
	Secret   string `json:"secret" validate:"maxbytes=4"`
}

func decode(t *testing.T, body string) (payload, error) {
	t.Helper()
	var p payload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := DecodeJSON(httptest.NewRecorder(), req, &p)
	return p, err
}

func TestDecodeJSON_OK(t *testing.T) {
	p, err := decode(t, `{"username":"bob"}`)
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Username)
}

func TestDecodeJSON_IgnoresUnknownFields(t *testing.T) {
	p, err := decode(t, `{"username":"bob","nickname":"b","age":3}`)
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Username)
}

func TestDecodeJSON_MaxBytesCountsBytes(t *testing.T) {
	_, err := decode(t, `{"username":"a","secret":"éé"}`)
	assert.NoError(t, err)
}

func TestDecodeJSON_Errors(t *testing.T) {
	cases := []struct{ body, want string }{
		{"", "Request body is required"},
		{`{"username":`, "Invalid request payload"},
		{`{"username":"a","secret":"ééé"}`, "secret must be at most 4 bytes"},
		{`{}`, "username is required"},
		{`{"username":"toolong"}`, "username must be at most 5 characters"},
		{`{"username":"a","kind":"c"}`, "kind must be one of [a b]"},
	}
	for _, tc := range cases {
		body, want := tc.body, tc.want
		_, err := decode(t, body)
		require.Error(t, err, body)
		assert.True(t, apperror.Is(err, apperror.BadRequest), body)
		var ae *apperror.AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, want, ae.Message, body)
	}
}

func TestPathInt64(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users/12", nil)
	req.SetPathValue("id", "12")
	id, err := PathInt64(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	req.SetPathValue("id", "abc")
	_, err = PathInt64(req, "id")
	assert.True(t, apperror.Is(err, apperror.BadRequest))

	req.SetPathValue("id", "-1")
	_, err = PathInt64(req, "id")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, Message{Message: "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}
