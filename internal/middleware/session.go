// Package middleware holds echo middleware for session-protected routes.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"jupiter/internal/auth"
	apperrors "jupiter/internal/errors"
	"jupiter/internal/service"
)

// ClaimsContextKey is where RequireSession stores the *auth.SessionClaims of the request.
const ClaimsContextKey = "session"

// SessionConfig configures RequireSession.
type SessionConfig struct {
	Sessions   service.SessionService
	CookieName string
	SignInPath string
}

// TokenLookup is the echo-jwt lookup string for a session token: bearer header first, then cookie.
func TokenLookup(cookieName string) string {
	return "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + cookieName
}

// RequireSession rejects requests without a valid session. Browsers are redirected to the sign-in
// page with a callbackUrl; API clients get 401.
func RequireSession(cfg SessionConfig) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsContextKey,
		TokenLookup: TokenLookup(cfg.CookieName),
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			res, err := cfg.Sessions.Session(c.Request().Context(), token)
			if err != nil {
				return nil, err
			}
			return &res.User, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if wantsHTML(c.Request()) {
				return c.Redirect(http.StatusFound, SignInURL(cfg.SignInPath, c.Request().URL.RequestURI()))
			}
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidSession)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// SessionClaims returns the claims RequireSession attached to c.
func SessionClaims(c echo.Context) (*auth.SessionClaims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*auth.SessionClaims)
	return claims, ok && claims != nil
}

// SignInURL builds the sign-in redirect carrying the page the user asked for.
func SignInURL(signInPath, callback string) string {
	if callback == "" {
		return signInPath
	}
	return signInPath + "?callbackUrl=" + url.QueryEscape(callback)
}

// SafeCallback returns callback when it is a same-origin relative path, else "/".
func SafeCallback(callback string) string {
	if callback == "" || !strings.HasPrefix(callback, "/") || strings.HasPrefix(callback, "//") || strings.Contains(callback, "\\") {
		return "/"
	}
	u, err := url.Parse(callback)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return callback
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
