package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-api/internal/config"
)

const accessCookieName = "access"

type CookiesProcessor struct {
	path            string
	domain          string
	accessExpiresIn time.Duration
}

func NewCookiesProcessor(conf config.Cookie) *CookiesProcessor {
	return &CookiesProcessor{
		path:            conf.Path,
		domain:          conf.Domain,
		accessExpiresIn: conf.AccessExpiresIn,
	}
}

func (p *CookiesProcessor) NewAccessTokenCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     accessCookieName,
		Path:     p.path,
		Domain:   p.domain,
		Value:    token,
		Expires:  time.Now().Add(p.accessExpiresIn),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func (p *CookiesProcessor) GetAccessToken(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(accessCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (p *CookiesProcessor) ExpireAccessTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     accessCookieName,
		Path:     p.path,
		Domain:   p.domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
