package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"jupiter/internal/auth"
	"jupiter/internal/errors"
	"jupiter/internal/middleware"
	"jupiter/internal/service"
)

// CookieConfig describes the session cookie written on sign in.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	sessions service.SessionService
	cookie   CookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions service.SessionService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie}
}

// SignInRequest represents a credentials sign-in request (JSON or form encoded).
type SignInRequest struct {
	Email       string `json:"email" form:"email" validate:"required"`
	Password    string `json:"password" form:"password" validate:"required"`
	CallbackURL string `json:"callbackUrl" form:"callbackUrl"`
}

// SignInResponse is returned after a successful sign in or refresh.
type SignInResponse struct {
	Token   string             `json:"token"`
	Expires time.Time          `json:"expires"`
	URL     string             `json:"url,omitempty"`
	User    auth.SessionClaims `json:"user"`
}

// SessionResponse mirrors the session endpoint payload; empty when signed out.
type SessionResponse struct {
	User    *auth.SessionClaims `json:"user,omitempty"`
	Expires *time.Time          `json:"expires,omitempty"`
}

// SignIn godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 200 {object} SignInResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/callback/credentials [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(errors.NewAuthError(errors.KindMissingCredentials, err))
	}
	if err := c.Validate(&req); err != nil {
		return h.fail(errors.NewAuthError(errors.KindMissingCredentials, err))
	}

	res, err := h.sessions.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.fail(err)
	}

	h.setSessionCookie(c, res.Token, res.Expires)
	return c.JSON(http.StatusOK, SignInResponse{
		Token:   res.Token,
		Expires: res.Expires,
		URL:     middleware.SafeCallback(req.CallbackURL),
		User:    res.User,
	})
}

// Session godoc
// @Summary Current session
// @Description Returns the session claims, or an empty object when there is no valid session.
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	res, err := h.withSession(c, h.sessions.Session)
	if err != nil {
		return c.JSON(http.StatusOK, SessionResponse{})
	}
	return c.JSON(http.StatusOK, SessionResponse{User: &res.User, Expires: &res.Expires})
}

// Refresh godoc
// @Summary Rotate the current session
// @Tags auth
// @Produce json
// @Success 200 {object} SignInResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	res, err := h.withSession(c, h.sessions.Refresh)
	if err != nil {
		return h.fail(err)
	}

	h.setSessionCookie(c, res.Token, res.Expires)
	return c.JSON(http.StatusOK, SignInResponse{
		Token:   res.Token,
		Expires: res.Expires,
		User:    res.User,
	})
}

// SignOut godoc
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	_, err := h.withSession(c, func(ctx context.Context, token string) (*service.SessionResult, error) {
		return nil, h.sessions.SignOut(ctx, token)
	})
	if err != nil && !stderrors.Is(err, errors.ErrInvalidSession) {
		c.Logger().Warnf("sign out: %v", err)
	}

	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "signed out",
	})
}

// fail maps err exactly once into the public error body.
func (h *AuthHandler) fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// tokensFrom lists candidate session tokens in the order RequireSession tries them: bearer
// header, then cookie.
func (h *AuthHandler) tokensFrom(c echo.Context) []string {
	var tokens []string
	if header := c.Request().Header.Get(echo.HeaderAuthorization); len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		tokens = append(tokens, header[7:])
	}
	if cookie, err := c.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		if len(tokens) == 0 || tokens[0] != cookie.Value {
			tokens = append(tokens, cookie.Value)
		}
	}
	return tokens
}

// withSession calls fn with each candidate token until one is not rejected as an invalid session.
func (h *AuthHandler) withSession(c echo.Context, fn func(ctx context.Context, token string) (*service.SessionResult, error)) (*service.SessionResult, error) {
	err := errors.ErrInvalidSession
	for _, token := range h.tokensFrom(c) {
		var res *service.SessionResult
		res, err = fn(c.Request().Context(), token)
		if err == nil || !stderrors.Is(err, errors.ErrInvalidSession) {
			return res, err
		}
	}
	return nil, err
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
