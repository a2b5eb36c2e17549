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
	"gorm.io/gorm"
)

func TestIsBusiness_Wrapped(t *testing.T) {
	err := fmt.Errorf("commit: %w", ErrBusinessf(CodeSlotUnavailable, "10:00 taken"))

	assert.True(t, IsBusiness(err, CodeSlotUnavailable))
	assert.False(t, IsBusiness(err, CodeInvalidInput))
	assert.Equal(t, "commit: slot_unavailable: 10:00 taken", err.Error())
}

func TestConstraintClassification(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))

	assert.True(t, IsExclusionConflict(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})))
	assert.False(t, IsExclusionConflict(&pgconn.PgError{Code: "23505"}))
}

func TestWriteBusiness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrBusiness(CodeSlotUnavailable), http.StatusConflict, CodeSlotUnavailable},
		{ErrBusiness(CodePolicyViolation), http.StatusUnprocessableEntity, CodePolicyViolation},
		{ErrBusiness(CodeServiceNotFound), http.StatusNotFound, CodeServiceNotFound},
		{ErrBusinessf(CodeInvalidInput, "date is required"), http.StatusBadRequest, CodeInvalidInput},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		require.True(t, WriteBusiness(c, tc.err))
		assert.Equal(t, tc.status, w.Code)

		var body HTTPError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Code)
		assert.NotEmpty(t, body.Message)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	assert.False(t, WriteBusiness(c, errors.New("db down")))
}
