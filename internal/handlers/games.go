package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/brightmind-app/brightmind/internal/domain"
)

// GamesHandler exposes the cognitive-games catalog.
type GamesHandler struct {
	games domain.GameRepository
}

// NewGamesHandler creates a new GamesHandler.
func NewGamesHandler(games domain.GameRepository) *GamesHandler {
	return &GamesHandler{games: games}
}

// All handles GET /api/games/all.
func (h *GamesHandler) All(c echo.Context) error {
	games, err := h.games.List(c.Request().Context())
	if err != nil {
		slog.Error("Failed to list games", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error fetching games"})
	}
	if games == nil {
		games = []domain.Game{}
	}
	return c.JSON(http.StatusOK, games)
}

// ByID handles GET /api/games/:id, looking up by the numeric catalog id.
func (h *GamesHandler) ByID(c echo.Context) error {
	catalogID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Game not found"})
	}

	game, err := h.games.FindByCatalogID(c.Request().Context(), catalogID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Game not found"})
		}
		slog.Error("Failed to fetch game", "catalog_id", catalogID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error fetching game"})
	}
	return c.JSON(http.StatusOK, game)
}
