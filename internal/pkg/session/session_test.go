package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueAndRead(t *testing.T, email, name string) (gotEmail, gotName string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	NewManager(time.Hour, "", false).Issue(c, email, name)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range w.Result().Cookies() {
		req.AddCookie(cookie)
	}
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = req
	return Identity(c2)
}

func TestIdentityRoundTrip(t *testing.T) {
	email, name := issueAndRead(t, "alice@example.com", "Alice")
	assert.Equal(t, "alice@example.com", email)
	assert.Equal(t, "Alice", name)
}

func TestIdentityPreservesEscapableCharacters(t *testing.T) {
	// values with +, % and spaces must survive exactly one escape cycle
	email, name := issueAndRead(t, "dev+tag@example.com", "100% Alice B")
	assert.Equal(t, "dev+tag@example.com", email)
	assert.Equal(t, "100% Alice B", name)
}

func TestVerified(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, Verified(c))

	c.Request.AddCookie(&http.Cookie{Name: CookieVerifiedUser, Value: "alice%40example.com"})
	require.True(t, Verified(c))
	email, _ := Identity(c)
	assert.Equal(t, "alice@example.com", email)
}

func TestIssueSkipsEmptyName(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	NewManager(time.Hour, "", false).Issue(c, "alice@example.com", "")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieVerifiedUser, cookies[0].Name)
}
