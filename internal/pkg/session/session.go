// Package session manages the verification cookies issued after a
// successful OTP exchange.
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names.
const (
	CookieVerifiedUser = "verified_user"
	CookieVerifiedName = "verified_name"
)

// Manager issues and reads verification cookies.
type Manager struct {
	ttl    time.Duration
	domain string
	secure bool
}

// NewManager creates a session manager.
func NewManager(ttl time.Duration, domain string, secure bool) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{ttl: ttl, domain: domain, secure: secure}
}

// Issue sets the verification cookies on the response. The name cookie is
// only set when a name is known.
func (m *Manager) Issue(c *gin.Context, email, name string) {
	maxAge := int(m.ttl.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieVerifiedUser, email, maxAge, "/", m.domain, m.secure, true)
	if name != "" {
		c.SetCookie(CookieVerifiedName, name, maxAge, "/", m.domain, m.secure, true)
	}
}

// Clear expires the verification cookies.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieVerifiedUser, "", -1, "/", m.domain, m.secure, true)
	c.SetCookie(CookieVerifiedName, "", -1, "/", m.domain, m.secure, true)
}

// Identity returns the verified email and name from the request cookies.
// Both are empty when the visitor has not verified.
func Identity(c *gin.Context) (email, name string) {
	email = readCookie(c, CookieVerifiedUser)
	name = readCookie(c, CookieVerifiedName)
	return email, name
}

// Verified reports whether the request carries a verification cookie.
func Verified(c *gin.Context) bool {
	return readCookie(c, CookieVerifiedUser) != ""
}

func readCookie(c *gin.Context, name string) string {
	// c.Cookie already unescapes the value SetCookie escaped.
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}
