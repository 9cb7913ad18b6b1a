package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/inbox/pkg/apperrors"
)

func recordWriteError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	writeError(c, err)
	return rec
}

func TestWriteError_ValidationErrorMapsTo400(t *testing.T) {
	rec := recordWriteError(apperrors.NewValidationError("name", "missing field"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "name", body.Field)
	assert.Equal(t, "missing field", body.Error)
}

func TestWriteError_NotFoundMapsTo404(t *testing.T) {
	rec := recordWriteError(fmt.Errorf("wrapped: %w", apperrors.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteError_ConfirmationExpiredMapsTo410(t *testing.T) {
	rec := recordWriteError(apperrors.ErrConfirmationExpired)
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestWriteError_UnknownErrorMapsTo500(t *testing.T) {
	rec := recordWriteError(fmt.Errorf("something unexpected happened"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
