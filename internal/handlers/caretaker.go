package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightmind-app/brightmind/internal/chat"
	"github.com/brightmind-app/brightmind/internal/domain"
)

// CaretakerHandler exposes the caretaker directory and patient assignment.
type CaretakerHandler struct {
	caretakers domain.CaretakerRepository
}

// NewCaretakerHandler creates a new CaretakerHandler.
func NewCaretakerHandler(caretakers domain.CaretakerRepository) *CaretakerHandler {
	return &CaretakerHandler{caretakers: caretakers}
}

// List handles GET /api/caretaker, returning each caretaker with their
// patient ids resolved to summaries.
func (h *CaretakerHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	caretakers, err := h.caretakers.List(ctx)
	if err != nil {
		slog.Error("Failed to list caretakers", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error fetching caretakers"})
	}

	resp := make([]CaretakerResponse, 0, len(caretakers))
	for _, caretaker := range caretakers {
		patients, err := h.caretakers.Patients(ctx, caretaker.ID.String())
		if err != nil {
			slog.Error("Failed to resolve patients", "caretaker_id", caretaker.ID.String(), "error", err)
			patients = []domain.PatientSummary{}
		}
		resp = append(resp, NewCaretakerResponse(caretaker, patients))
	}
	return c.JSON(http.StatusOK, resp)
}

// Patients handles GET /api/caretaker/:id/patients.
func (h *CaretakerHandler) Patients(c echo.Context) error {
	id := chat.WithSpace("caretaker", chat.Canonical(c.Param("id")))

	patients, err := h.caretakers.Patients(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Caretaker not found"})
		}
		slog.Error("Failed to fetch patients", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error fetching patients"})
	}
	return c.JSON(http.StatusOK, patients)
}

// Assign handles POST /api/caretaker/assign. Assigning an already-assigned
// patient succeeds without duplicating the entry.
func (h *CaretakerHandler) Assign(c echo.Context) error {
	var req AssignPatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Caretaker id and patient id are required"})
	}

	caretakerID := chat.WithSpace("caretaker", chat.Canonical(req.CaretakerID))
	patientID := chat.WithSpace("user", chat.Canonical(req.PatientID))

	if err := h.caretakers.Assign(c.Request().Context(), caretakerID, patientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Caretaker not found"})
		}
		slog.Error("Failed to assign patient", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error assigning patient"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Patient assigned successfully"})
}
