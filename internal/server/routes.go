package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightmind-app/brightmind/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	authGate := middleware.Auth(s.tokens, s.userStore)
	rateLimiter := middleware.RateLimiter()

	s.E.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Server is up and running!")
	})
	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// Auth and account.
	authGroup := s.E.Group("/api/auth")
	authGroup.POST("/register", s.authHandler.Register, rateLimiter)
	authGroup.POST("/login", s.authHandler.Login, rateLimiter)
	authGroup.POST("/googleRegister", s.authHandler.GoogleRegister, rateLimiter)
	authGroup.POST("/changePassword", s.authHandler.ChangePassword, authGate)
	authGroup.POST("/changeUserName", s.authHandler.ChangeUserName, authGate)
	authGroup.GET("/settings", s.authHandler.GetSettings, authGate)
	authGroup.PUT("/settings", s.authHandler.UpdateSettings, authGate)
	authGroup.GET("/profile", s.authHandler.GetProfile, authGate)
	authGroup.PUT("/profile", s.authHandler.UpdateProfile, authGate)
	authGroup.POST("/profile/photo", s.authHandler.UploadPhoto, authGate)
	authGroup.GET("/profile/photo", s.authHandler.GetPhoto, authGate)

	// Messaging.
	chatGroup := s.E.Group("/api/chat", authGate)
	chatGroup.GET("/users", s.chatHandler.Users)
	chatGroup.GET("/messages/:counterpartId", s.chatHandler.History)
	chatGroup.POST("/messages", s.chatHandler.Send)

	// Live channel. The same auth gate guards the handshake: an invalid
	// token is rejected before the upgrade.
	s.E.GET("/ws", s.Bridge.Handler(), authGate)

	// Games catalog.
	gamesGroup := s.E.Group("/api/games")
	gamesGroup.GET("/all", s.gamesHandler.All)
	gamesGroup.GET("/:id", s.gamesHandler.ByID)

	// Caretakers.
	caretakerGroup := s.E.Group("/api/caretaker", authGate)
	caretakerGroup.GET("", s.caretakerHandler.List)
	caretakerGroup.GET("/:id/patients", s.caretakerHandler.Patients)
	caretakerGroup.POST("/assign", s.caretakerHandler.Assign)

	// Assistant fallback.
	s.E.POST("/api/assistant/chat", s.assistantHandler.Chat, authGate)
}
