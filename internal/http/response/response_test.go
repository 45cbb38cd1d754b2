package response_test

import (
	"encoding/json/v2"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Success(rec, map[string]string{"status": "ok"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)
}

func TestTooManyRequests(t *testing.T) {
	rec := httptest.NewRecorder()
	response.TooManyRequests(rec, "slow down", nil)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "slow down", env.Error)
}

func TestHandleError_DomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.HandleError(rec, domainerrors.NotFound("book"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleError_StoreError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.HandleError(rec, store.ErrAlreadyExists, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleError_UnknownBecomes500(t *testing.T) {
	rec := httptest.NewRecorder()
	response.HandleError(rec, errors.New("boom"), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
