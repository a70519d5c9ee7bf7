package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement
// Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleRegisterRequest is the body of POST /api/auth/googleRegister.
type GoogleRegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest is the body of POST /api/auth/changePassword.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// ChangeUserNameRequest is the body of POST /api/auth/changeUserName.
type ChangeUserNameRequest struct {
	NewUserName string `json:"newUserName" validate:"required"`
}

// SendMessageRequest is the body of POST /api/chat/messages, the REST send
// path. Receiver is any because clients send ids as strings or numbers.
type SendMessageRequest struct {
	Receiver any    `json:"receiver" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// AssignPatientRequest is the body of POST /api/caretaker/assign.
type AssignPatientRequest struct {
	CaretakerID string `json:"caretakerId" validate:"required"`
	PatientID   string `json:"patientId" validate:"required"`
}

// AssistantChatRequest is the body of POST /api/assistant/chat.
type AssistantChatRequest struct {
	Message string `json:"message" validate:"required"`
	// History carries prior turns so the assistant keeps context; it may be
	// empty on the first turn.
	History []AssistantTurn `json:"history"`
}

// AssistantTurn is one prior exchange turn supplied by the client.
type AssistantTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}
