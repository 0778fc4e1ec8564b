package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqbase/core/internal/pkg/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", apperr.Validation("title is required"), http.StatusUnprocessableEntity},
		{"conflict", apperr.Conflict("already exists"), http.StatusConflict},
		{"unauthenticated", apperr.Unauthenticated("bad credentials"), http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("not yours"), http.StatusForbidden},
		{"not found", apperr.NotFound("missing"), http.StatusNotFound},
		{"integrity", apperr.Integrity("corrupt tree"), http.StatusInternalServerError},
		{"persistence", apperr.Persistence(errors.New("disk on fire")), http.StatusInternalServerError},
		{"plain", errors.New("anything"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Err(c, tc.err)

			assert.Equal(t, tc.code, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, float64(0), body["ok"])
			assert.Equal(t, float64(tc.code), body["code"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestOKWrapsSlices(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, []string{"a", "b"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":["a","b"]}`, w.Body.String())
}

func TestOKPassesObjects(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, gin.H{"id": 1})

	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestPaginated(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Paginated(c, []string{"x"}, Pagination{
		Total:       21,
		CurrentPage: 2,
		TotalPage:   3,
		Size:        10,
		HasNextPage: true,
	})

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "data")
	assert.Contains(t, body, "pagination")
}
