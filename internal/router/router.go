package router

import (
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"chathub/internal/auth"
	"chathub/internal/config"
	"chathub/internal/handler"
	"chathub/internal/logstream"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	stream *logstream.Stream,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	credHandler *handler.CredentialHandler,
	chatHandler *handler.ChatHandler,
	msgHandler *handler.ChatMessageHandler,
	logHandler *handler.LogHandler,
	healthHandler *handler.HealthHandler,
) {
	// Request logs go to stdout and to the log stream so operators watching
	// the SSE endpoint see live traffic.
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Output: io.MultiWriter(os.Stdout, stream.Writer("http")),
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}))
	// Gzip would buffer the event stream, so it is skipped there.
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Path(), "/logs/stream")
		},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", healthHandler.Healthz)
	e.GET("/health/db", healthHandler.DB)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/verify-email", authHandler.VerifyEmail)
	api.POST("/auth/set-password", authHandler.SetPassword)
	api.POST("/auth/resend-verification", authHandler.ResendVerification)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	api.POST("/users/register", userHandler.Register)
	api.POST("/users", userHandler.Create)
	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)

	// Log stream routes
	api.GET("/logs/stream", logHandler.Stream)
	api.POST("/logs/test", logHandler.Test)
	api.GET("/logs/recent", logHandler.Recent)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}), rejectBlacklisted(tokenStore))

	secured.GET("/auth/me", authHandler.Me)

	secured.GET("/users/pending", userHandler.Pending)
	secured.PUT("/users/me", userHandler.UpdateMe)
	secured.PUT("/users/:id", userHandler.Update)
	secured.PUT("/users/:id/approve", userHandler.Approve)
	secured.PUT("/users/:id/reject", userHandler.Reject)
	secured.DELETE("/users/:id", userHandler.Delete)

	secured.GET("/credentials/me", credHandler.GetMine)
	secured.PUT("/credentials/me", credHandler.UpdateMine)
	secured.DELETE("/credentials/me", credHandler.DeleteMine)
	secured.POST("/credentials/change-password", credHandler.ChangePassword)

	secured.GET("/chats", chatHandler.List)
	secured.POST("/chats", chatHandler.Create)
	secured.GET("/chats/:id", chatHandler.Get)
	secured.PUT("/chats/:id", chatHandler.Update)
	secured.DELETE("/chats/:id", chatHandler.Delete)
	secured.GET("/chats/:id/users", chatHandler.ListUsers)
	secured.POST("/chats/:id/users", chatHandler.AddUser)
	secured.PUT("/chats/:id/users/:user_id", chatHandler.UpdateUserRole)
	secured.DELETE("/chats/:id/users/:user_id", chatHandler.RemoveUser)

	secured.GET("/chats/:id/messages", msgHandler.List)
	secured.POST("/chats/:id/messages", msgHandler.Create)
	secured.GET("/chats/:id/messages/:message_id", msgHandler.Get)
	secured.PUT("/chats/:id/messages/:message_id", msgHandler.Update)
	secured.DELETE("/chats/:id/messages/:message_id", msgHandler.Delete)
}

// rejectBlacklisted refuses access tokens revoked by a logout.
func rejectBlacklisted(tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if claims.ID != "" {
				blacklisted, _ := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
				if blacklisted {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
