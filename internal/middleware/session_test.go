package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"jupiter/internal/auth"
	apperrors "jupiter/internal/errors"
	"jupiter/internal/model"
	"jupiter/internal/service"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) SignIn(ctx context.Context, email, password string) (*service.SessionResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionResult), args.Error(1)
}

func (m *MockSessionService) Session(ctx context.Context, token string) (*service.SessionResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionResult), args.Error(1)
}

func (m *MockSessionService) Refresh(ctx context.Context, token string) (*service.SessionResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionResult), args.Error(1)
}

func (m *MockSessionService) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newProtectedEcho(sessions service.SessionService) *echo.Echo {
	e := echo.New()
	mw := RequireSession(SessionConfig{
		Sessions:   sessions,
		CookieName: "jupiter.session-token",
		SignInPath: "/login",
	})
	e.GET("/profile", func(c echo.Context) error {
		claims, ok := SessionClaims(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, claims)
	}, mw)
	return e
}

func validSession() *service.SessionResult {
	return &service.SessionResult{
		Token: "good",
		User:  auth.SessionClaims{ID: "7", Role: model.RoleFaculty, Email: "ada@uni.edu", Semester: 3},
	}
}

func TestRequireSession_BearerHeader(t *testing.T) {
	sessions := new(MockSessionService)
	sessions.On("Session", mock.Anything, "good").Return(validSession(), nil)
	e := newProtectedEcho(sessions)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"faculty"`)
	sessions.AssertExpectations(t)
}

func TestRequireSession_Cookie(t *testing.T) {
	sessions := new(MockSessionService)
	sessions.On("Session", mock.Anything, "good").Return(validSession(), nil)
	e := newProtectedEcho(sessions)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: "jupiter.session-token", Value: "good"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"ada@uni.edu"`)
}

func TestRequireSession_MissingTokenAPI(t *testing.T) {
	e := newProtectedEcho(new(MockSessionService))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_SESSION")
}

func TestRequireSession_InvalidTokenBrowserRedirects(t *testing.T) {
	sessions := new(MockSessionService)
	sessions.On("Session", mock.Anything, "stale").Return(nil, apperrors.ErrInvalidSession)
	e := newProtectedEcho(sessions)

	req := httptest.NewRequest(http.MethodGet, "/profile?tab=courses", nil)
	req.Header.Set(echo.HeaderAccept, "text/html,application/xhtml+xml")
	req.AddCookie(&http.Cookie{Name: "jupiter.session-token", Value: "stale"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fprofile%3Ftab%3Dcourses", rec.Header().Get(echo.HeaderLocation))
}

func TestSafeCallback(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/profile":             "/profile",
		"/courses?term=fall":   "/courses?term=fall",
		"https://evil.example": "/",
		"//evil.example/path":  "/",
		"/\\evil.example":      "/",
		"profile":              "/",
		"javascript:alert(1)":  "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeCallback(in), in)
	}
}

func TestSignInURL(t *testing.T) {
	assert.Equal(t, "/login", SignInURL("/login", ""))
	assert.Equal(t, "/login?callbackUrl=%2Fprofile", SignInURL("/login", "/profile"))
}
