package handlers

import (
	"github.com/brightmind-app/brightmind/internal/domain"
)

// ErrorResponse is the standard format for API error responses.
type ErrorResponse struct {
	Message string `json:"message"`
}

// UserSummary is the directory view of a user: enough to start a
// conversation, nothing more.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
}

// NewUserSummary projects a domain user onto the directory view.
func NewUserSummary(u domain.User) UserSummary {
	s := UserSummary{Name: u.Name, Email: u.Email, Photo: u.Photo}
	if u.ID != nil {
		s.ID = u.ID.String()
	}
	return s
}

// CaretakerResponse is a caretaker with the patient ids resolved to
// summaries, mirroring what the directory pages render.
type CaretakerResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Role        string                  `json:"role,omitempty"`
	Status      string                  `json:"status,omitempty"`
	Phone       string                  `json:"phone"`
	Specialties []string                `json:"specialties,omitempty"`
	Initials    string                  `json:"initials,omitempty"`
	Rating      float64                 `json:"rating,omitempty"`
	Experience  string                  `json:"experience,omitempty"`
	Email       string                  `json:"email"`
	Photo       string                  `json:"photo,omitempty"`
	Patients    []domain.PatientSummary `json:"patients"`
}

// NewCaretakerResponse builds the response shape from a caretaker and their
// resolved patients.
func NewCaretakerResponse(c domain.Caretaker, patients []domain.PatientSummary) CaretakerResponse {
	resp := CaretakerResponse{
		Name:        c.Name,
		Role:        c.Role,
		Status:      c.Status,
		Phone:       c.Phone,
		Specialties: c.Specialties,
		Initials:    c.Initials,
		Rating:      c.Rating,
		Experience:  c.Experience,
		Email:       c.Email,
		Photo:       c.Photo,
		Patients:    patients,
	}
	if resp.Patients == nil {
		resp.Patients = []domain.PatientSummary{}
	}
	if c.ID != nil {
		resp.ID = c.ID.String()
	}
	return resp
}
