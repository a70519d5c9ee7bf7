package database

import (
	"context"
	"fmt"

	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// SurrealCaretakerStore encapsulates database operations for the caretaker
// directory and patient assignment.
type SurrealCaretakerStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

var _ domain.CaretakerRepository = (*SurrealCaretakerStore)(nil)

// NewSurrealCaretakerStore creates a new SurrealCaretakerStore.
func NewSurrealCaretakerStore(db *surrealdb.DB, ns, dbName string) *SurrealCaretakerStore {
	return &SurrealCaretakerStore{db: db, ns: ns, dbName: dbName}
}

// List returns all caretakers.
func (s *SurrealCaretakerStore) List(ctx context.Context) ([]domain.Caretaker, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := "SELECT * FROM caretaker ORDER BY name ASC"
	caretakers, err := Query[domain.Caretaker](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return caretakers, nil
}

// FindByID resolves a canonical record id ("caretaker:xyz").
func (s *SurrealCaretakerStore) FindByID(ctx context.Context, id string) (*domain.Caretaker, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := "SELECT * FROM type::record($id)"
	params := map[string]any{"id": id}

	caretaker, err := QueryOne[domain.Caretaker](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if caretaker == nil {
		return nil, domain.ErrNotFound
	}
	return caretaker, nil
}

// Patients resolves the caretaker's assigned patient ids to user summaries.
func (s *SurrealCaretakerStore) Patients(ctx context.Context, caretakerID string) ([]domain.PatientSummary, error) {
	caretaker, err := s.FindByID(ctx, caretakerID)
	if err != nil {
		return nil, err
	}
	if len(caretaker.Patients) == 0 {
		return []domain.PatientSummary{}, nil
	}

	query := `
		SELECT <string> id AS id, name, email, photo FROM user
		WHERE <string> id IN $ids
		ORDER BY name ASC
	`
	params := map[string]any{"ids": caretaker.Patients}

	patients, err := Query[domain.PatientSummary](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve patients: %w", err)
	}
	if patients == nil {
		patients = []domain.PatientSummary{}
	}
	return patients, nil
}

// Assign adds the patient to the caretaker's list. Re-assigning an existing
// patient is a no-op.
func (s *SurrealCaretakerStore) Assign(ctx context.Context, caretakerID, patientID string) error {
	caretaker, err := s.FindByID(ctx, caretakerID)
	if err != nil {
		return err
	}

	for _, p := range caretaker.Patients {
		if p == patientID {
			return nil
		}
	}

	query := "UPDATE type::record($id) SET patients += [$patient]"
	params := map[string]any{"id": caretakerID, "patient": patientID}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to assign patient: %w", err)
	}
	return nil
}
