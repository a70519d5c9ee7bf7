package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Caretaker is a professional who can be assigned patients and messaged
// through the chat core like any other identity.
type Caretaker struct {
	ID          *surrealmodels.RecordID `json:"id,omitempty"`
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
	// Patients holds canonical user ids ("user:xyz").
	Patients []string `json:"patients"`
}

// PatientSummary is the slice of a user record a caretaker is allowed to see.
type PatientSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
}

// CaretakerRepository defines storage operations for the caretaker directory.
type CaretakerRepository interface {
	List(ctx context.Context) ([]Caretaker, error)
	// FindByID resolves a canonical record id ("caretaker:xyz").
	// Returns ErrNotFound when no such caretaker exists.
	FindByID(ctx context.Context, id string) (*Caretaker, error)
	// Patients resolves the caretaker's patient ids to summaries.
	Patients(ctx context.Context, caretakerID string) ([]PatientSummary, error)
	// Assign adds patientID to the caretaker's patient list. Assigning an
	// already-assigned patient is a no-op, not an error.
	Assign(ctx context.Context, caretakerID, patientID string) error
}
