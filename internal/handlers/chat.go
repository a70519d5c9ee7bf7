package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/brightmind-app/brightmind/internal/chat"
	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/brightmind-app/brightmind/internal/middleware"
)

// ChatHandler exposes the REST side of the messaging core: the user
// directory, conversation history and the REST send path. Live delivery goes
// through the websocket bridge; both send paths share one dispatcher.
type ChatHandler struct {
	users      domain.UserRepository
	messages   domain.MessageRepository
	dispatcher *chat.Dispatcher
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(users domain.UserRepository, messages domain.MessageRepository, dispatcher *chat.Dispatcher) *ChatHandler {
	return &ChatHandler{users: users, messages: messages, dispatcher: dispatcher}
}

// Users handles GET /api/chat/users: the directory of people one can message.
func (h *ChatHandler) Users(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		slog.Error("Failed to list users", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error fetching users"})
	}

	return c.JSON(http.StatusOK, lo.Map(users, func(u domain.User, _ int) UserSummary {
		return NewUserSummary(u)
	}))
}

// History handles GET /api/chat/messages/:counterpartId. The optional
// ?type=user|caretaker selects which identity space a bare counterpart id is
// drawn from; fully qualified ids pass through untouched. An empty
// conversation is 200 with an empty array, never an error.
func (h *ChatHandler) History(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}

	space := c.QueryParam("type")
	switch space {
	case "", "user":
		space = "user"
	case "caretaker":
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unknown counterpart type"})
	}
	counterpart := chat.WithSpace(space, chat.Canonical(c.Param("counterpartId")))

	messages, err := h.messages.History(c.Request().Context(), user.ID.String(), counterpart)
	if err != nil {
		slog.Error("Failed to fetch history", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error fetching messages"})
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return c.JSON(http.StatusOK, messages)
}

// Send handles POST /api/chat/messages, the REST send path. It invokes the
// same dispatcher as the websocket path, so the stored record and the
// broadcast are identical either way; unlike the socket path it reports the
// outcome in the response.
func (h *ChatHandler) Send(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Receiver and content are required"})
	}

	receiver := chat.WithSpace("user", chat.Canonical(req.Receiver))
	msg, err := h.dispatcher.Send(c.Request().Context(), user.ID.String(), receiver, req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		}
		slog.Error("Failed to send message", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error sending message"})
	}

	return c.JSON(http.StatusCreated, msg)
}
