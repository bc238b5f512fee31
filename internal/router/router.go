package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"jupiter/internal/config"
	"jupiter/internal/handler"
	session "jupiter/internal/middleware"
	"jupiter/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions service.SessionService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/callback/credentials", authHandler.SignIn)
	api.GET("/auth/session", authHandler.Session)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/signout", authHandler.SignOut)

	// Secured routes (require a valid session)
	secured := api.Group("", session.RequireSession(session.SessionConfig{
		Sessions:   sessions,
		CookieName: cfg.SessionCookieName,
		SignInPath: cfg.SignInPath,
	}))

	secured.GET("/profile", userHandler.GetProfile)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
