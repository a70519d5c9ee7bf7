package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/surrealdb/surrealdb.go"

	"github.com/brightmind-app/brightmind/internal/assistant"
	"github.com/brightmind-app/brightmind/internal/auth"
	"github.com/brightmind-app/brightmind/internal/chat"
	"github.com/brightmind-app/brightmind/internal/config"
	"github.com/brightmind-app/brightmind/internal/database"
	"github.com/brightmind-app/brightmind/internal/email"
	"github.com/brightmind-app/brightmind/internal/handlers"
	"github.com/brightmind-app/brightmind/internal/logging"
	"github.com/brightmind-app/brightmind/internal/middleware"
	"github.com/brightmind-app/brightmind/internal/pubsub"
	"github.com/brightmind-app/brightmind/internal/storage"
	ws "github.com/brightmind-app/brightmind/internal/websocket"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E      *echo.Echo
	DB     *surrealdb.DB
	Cfg    *config.Config
	Bus    *pubsub.WatermillBridge
	Bridge *ws.Bridge

	tokens     *auth.TokenManager
	userStore  *database.SurrealUserStore
	dispatcher *chat.Dispatcher

	authHandler      *handlers.AuthHandler
	chatHandler      *handlers.ChatHandler
	caretakerHandler *handlers.CaretakerHandler
	gamesHandler     *handlers.GamesHandler
	assistantHandler *handlers.AssistantHandler
}

// New creates a new Server instance with every dependency wired.
func New() *Server {
	logging.New()
	cfg := config.New()

	db, err := database.NewDB(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	emailer, err := email.NewEmailService(cfg)
	if err != nil {
		slog.Error("Failed to initialize email service", "error", err)
		os.Exit(1)
	}

	// Stores.
	userStore := database.NewSurrealUserStore(db, cfg.DBNs, cfg.DBDb)
	messageStore := database.NewSurrealMessageStore(db, cfg.DBNs, cfg.DBDb)
	caretakerStore := database.NewSurrealCaretakerStore(db, cfg.DBNs, cfg.DBDb)
	gameStore := database.NewSurrealGameStore(db, cfg.DBNs, cfg.DBDb)
	photoStore := storage.NewOsStore(cfg.PhotoDir)

	// Messaging core: one bus, one bridge, one dispatcher behind both the
	// REST and websocket send paths.
	bus := pubsub.NewWatermillBridge()
	bridge := ws.NewBridge(bus, chat.TopicMessageSend)
	go bridge.Run()

	dispatcher := chat.NewDispatcher(messageStore, bridge)
	if err := dispatcher.Run(context.Background(), bus); err != nil {
		slog.Error("Failed to start dispatcher", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	assistantClient := assistant.New(cfg.AssistantURL, cfg.AssistantAPIKey, cfg.AssistantModel)
	if assistantClient == nil {
		slog.Info("Assistant is not configured; /api/assistant/chat will answer 503")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.AllowOrigin},
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
		AllowCredentials: true,
	}))

	return &Server{
		E:          e,
		DB:         db,
		Cfg:        cfg,
		Bus:        bus,
		Bridge:     bridge,
		tokens:     tokens,
		userStore:  userStore,
		dispatcher: dispatcher,

		authHandler:      handlers.NewAuthHandler(userStore, tokens, emailer, photoStore),
		chatHandler:      handlers.NewChatHandler(userStore, messageStore, dispatcher),
		caretakerHandler: handlers.NewCaretakerHandler(caretakerStore),
		gamesHandler:     handlers.NewGamesHandler(gameStore),
		assistantHandler: handlers.NewAssistantHandler(assistantClient),
	}
}
