package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieManager sets and clears the httpOnly token cookies.
type CookieManager struct {
	Domain string
	Secure bool
}

func NewCookieManager(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

func (m *CookieManager) SetPair(c *gin.Context, access string, aexp time.Time, refresh string, rexp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", access, maxAgeFrom(aexp), "/", m.Domain, m.Secure, true)
	c.SetCookie("refresh_token", refresh, maxAgeFrom(rexp), "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie("refresh_token", "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
