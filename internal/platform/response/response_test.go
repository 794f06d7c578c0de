package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staybook/service-booking/internal/platform/apperror"
)

func TestStatusFor(t *testing.T) {
	tests := map[apperror.Kind]int{
		apperror.KindInvalid:      http.StatusBadRequest,
		apperror.KindConflict:     http.StatusBadRequest,
		apperror.KindInvalidState: http.StatusBadRequest,
		apperror.KindNotFound:     http.StatusNotFound,
		apperror.KindUnauthorized: http.StatusUnauthorized,
		apperror.KindForbidden:    http.StatusForbidden,
		apperror.Kind("other"):    http.StatusInternalServerError,
	}
	for kind, want := range tests {
		assert.Equal(t, want, StatusFor(kind), string(kind))
	}
}

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"wrapped domain error", fmt.Errorf("check: %w", apperror.New(apperror.KindConflict, "room is not available")), http.StatusBadRequest},
		{"not found", apperror.NewNotFoundError("booking", "42"), http.StatusNotFound},
		{"plain error", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Error(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.err.Error(), body.Error)
		})
	}
}

func TestPaginated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Paginated(c, []int{1, 2}, 5, 1, 2)

	var body Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(3), body.Meta.TotalPages)
	assert.True(t, body.Success)
}
