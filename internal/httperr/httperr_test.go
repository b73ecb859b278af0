package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func respond(t *testing.T, err error) (int, HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Respond(c, zap.NewNop(), err)

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondMapsKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{NewBadRequest("invalid_date", "bad date"), http.StatusBadRequest, "invalid_date"},
		{NewNotFound("booking_not_found", "missing"), http.StatusNotFound, "booking_not_found"},
		{NewConflict("time_conflict", "taken"), http.StatusConflict, "time_conflict"},
		{NewInvalidTransition("completed", "pending"), http.StatusUnprocessableEntity, "invalid_transition"},
		{NewForbidden("forbidden", "nope"), http.StatusForbidden, "forbidden"},
		{NewUnauthorized("invalid_credentials", "bad login"), http.StatusUnauthorized, "invalid_credentials"},
		{BusinessError{Kind: KindBadRequest, Code: "too_soon"}, http.StatusBadRequest, "too_soon"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, body := respond(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondHidesStorageErrors(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.0.3")

	status, body := respond(t, Database("load booking", cause))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal_error", body.Code)
	assert.NotContains(t, body.Message, "10.0.0.3")

	status, _ = respond(t, cause)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestDatabaseWrapping(t *testing.T) {
	assert.NoError(t, Database("op", nil))

	conflict := NewConflict("already_paid", "paid")
	assert.Equal(t, conflict, Database("op", conflict))

	cause := errors.New("boom")
	err := Database("op", fmt.Errorf("query: %w", cause))
	assert.ErrorIs(t, err, cause)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindDatabase, kind)
}

func TestPgClassification(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("insert: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, IsUniqueViolation(wrap("23505")))
	assert.True(t, IsExclusionConflict(wrap("23P01")))
	assert.True(t, IsSerializationFailure(wrap("40001")))
	assert.True(t, IsSerializationFailure(wrap("40P01")))
	assert.True(t, IsWriteConflict(wrap("23505")))
	assert.False(t, IsWriteConflict(wrap("23503")))
	assert.False(t, IsWriteConflict(errors.New("plain")))
}
