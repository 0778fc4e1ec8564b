package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/faqbase/core/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func userWithLevel(level int) *models.UserModel {
	u := &models.UserModel{Username: "someone", Level: level}
	u.ID = 42
	return u
}

func TestRequireLevelNoUser(t *testing.T) {
	c, w := testContext(t)

	RequireLevel(models.LevelViewer)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireLevelInsufficient(t *testing.T) {
	c, w := testContext(t)
	SetCurrentUser(c, userWithLevel(models.LevelContributor))

	RequireLevel(models.LevelAdmin)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireLevelExact(t *testing.T) {
	c, _ := testContext(t)
	SetCurrentUser(c, userWithLevel(models.LevelCategoryManager))

	RequireLevel(models.LevelCategoryManager)(c)

	assert.False(t, c.IsAborted())
}

func TestRequireLevelAbove(t *testing.T) {
	c, _ := testContext(t)
	SetCurrentUser(c, userWithLevel(models.LevelAdmin))

	RequireLevel(models.LevelViewer)(c)

	assert.False(t, c.IsAborted())
}

func TestCurrentUserEmpty(t *testing.T) {
	c, _ := testContext(t)
	assert.Nil(t, CurrentUser(c))
	assert.False(t, IsAuthenticated(c))
}

func TestNormalizeToken(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"abc.def.ghi", "abc.def.ghi"},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc.def.ghi", "abc.def.ghi"},
		{"  Bearer   abc.def.ghi  ", "abc.def.ghi"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeToken(tc.raw), "raw=%q", tc.raw)
	}
}

func TestExtractTokenPrecedence(t *testing.T) {
	c, _ := testContext(t)
	c.Request.Header.Set("Authorization", "Bearer header-token")
	c.Request.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie-token"})

	assert.Equal(t, "header-token", extractToken(c))
}

func TestExtractTokenCookieFallback(t *testing.T) {
	c, _ := testContext(t)
	c.Request.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie-token"})

	assert.Equal(t, "cookie-token", extractToken(c))
}

func TestExtractTokenQueryFallback(t *testing.T) {
	c, _ := testContext(t)
	c.Request = httptest.NewRequest(http.MethodGet, "/?token=query-token", nil)

	assert.Equal(t, "query-token", extractToken(c))
}
