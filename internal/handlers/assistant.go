package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/brightmind-app/brightmind/internal/assistant"
)

// systemPrompt frames the assistant as the wellness companion the app falls
// back to when no caretaker is available.
const systemPrompt = "You are a friendly wellness companion inside the Brightmind app. " +
	"Offer supportive, practical suggestions and never give medical diagnoses."

// AssistantHandler proxies chat requests to the external completion service.
// The client is injected at construction; nil means the feature is not
// configured and every request answers 503.
type AssistantHandler struct {
	client *assistant.Client
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(client *assistant.Client) *AssistantHandler {
	return &AssistantHandler{client: client}
}

// Chat handles POST /api/assistant/chat.
func (h *AssistantHandler) Chat(c echo.Context) error {
	if h.client == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Message: "Assistant is not configured"})
	}

	var req AssistantChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Message is required"})
	}

	messages := append([]assistant.ChatMessage{{Role: "system", Content: systemPrompt}},
		lo.Map(req.History, func(t AssistantTurn, _ int) assistant.ChatMessage {
			return assistant.ChatMessage{Role: t.Role, Content: t.Content}
		})...)
	messages = append(messages, assistant.ChatMessage{Role: "user", Content: req.Message})

	reply, err := h.client.Chat(c.Request().Context(), messages)
	if err != nil {
		slog.Error("Assistant request failed", "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Message: "Assistant is unavailable right now"})
	}
	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}
