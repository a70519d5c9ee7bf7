package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/brightmind-app/brightmind/internal/handlers"
)

type mockCaretakerStore struct {
	caretakers map[string]*domain.Caretaker
	// patientNames resolves known patient ids to display names.
	patientNames map[string]string
}

func newMockCaretakerStore() *mockCaretakerStore {
	return &mockCaretakerStore{
		caretakers:   make(map[string]*domain.Caretaker),
		patientNames: make(map[string]string),
	}
}

func (m *mockCaretakerStore) seed(id, name string, patients ...string) *domain.Caretaker {
	recordID := surrealmodels.NewRecordID("caretaker", id)
	c := &domain.Caretaker{ID: &recordID, Name: name, Patients: patients}
	m.caretakers[recordID.String()] = c
	return c
}

func (m *mockCaretakerStore) List(ctx context.Context) ([]domain.Caretaker, error) {
	out := make([]domain.Caretaker, 0, len(m.caretakers))
	for _, c := range m.caretakers {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCaretakerStore) FindByID(ctx context.Context, id string) (*domain.Caretaker, error) {
	if c, ok := m.caretakers[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("caretaker %s: %w", id, domain.ErrNotFound)
}

func (m *mockCaretakerStore) Patients(ctx context.Context, caretakerID string) ([]domain.PatientSummary, error) {
	c, err := m.FindByID(ctx, caretakerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PatientSummary, 0, len(c.Patients))
	for _, id := range c.Patients {
		out = append(out, domain.PatientSummary{ID: id, Name: m.patientNames[id]})
	}
	return out, nil
}

func (m *mockCaretakerStore) Assign(ctx context.Context, caretakerID, patientID string) error {
	c, err := m.FindByID(ctx, caretakerID)
	if err != nil {
		return err
	}
	if slices.Contains(c.Patients, patientID) {
		return nil
	}
	c.Patients = append(c.Patients, patientID)
	return nil
}

func TestCaretakerHandler_List(t *testing.T) {
	store := newMockCaretakerStore()
	store.seed("cx1", "Dr. Weber", "user:u1")
	store.seed("cx2", "Dr. Fischer")
	store.patientNames["user:u1"] = "Alice"
	h := handlers.NewCaretakerHandler(store)

	c, rec := doJSON(newTestEcho(), http.MethodGet, "/api/caretaker", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []handlers.CaretakerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	for _, caretaker := range resp {
		// Patients always serializes as an array, never null.
		require.NotNil(t, caretaker.Patients)
		if caretaker.ID == "caretaker:cx1" {
			require.Len(t, caretaker.Patients, 1)
			assert.Equal(t, "Alice", caretaker.Patients[0].Name)
		}
	}
}

func TestCaretakerHandler_Patients(t *testing.T) {
	store := newMockCaretakerStore()
	store.seed("cx1", "Dr. Weber", "user:u1", "user:u2")
	h := handlers.NewCaretakerHandler(store)

	t.Run("resolves the patient list", func(t *testing.T) {
		c, rec := doJSON(newTestEcho(), http.MethodGet, "/api/caretaker/cx1/patients", "")
		c.SetParamNames("id")
		c.SetParamValues("cx1")

		require.NoError(t, h.Patients(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var patients []domain.PatientSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patients))
		assert.Len(t, patients, 2)
	})

	t.Run("unknown caretaker is a 404", func(t *testing.T) {
		c, rec := doJSON(newTestEcho(), http.MethodGet, "/api/caretaker/ghost/patients", "")
		c.SetParamNames("id")
		c.SetParamValues("ghost")

		require.NoError(t, h.Patients(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCaretakerHandler_Assign(t *testing.T) {
	t.Run("assigns and stays idempotent", func(t *testing.T) {
		store := newMockCaretakerStore()
		caretaker := store.seed("cx1", "Dr. Weber")
		h := handlers.NewCaretakerHandler(store)

		for range 2 {
			c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/caretaker/assign",
				`{"caretakerId":"cx1","patientId":"u7"}`)
			require.NoError(t, h.Assign(c))
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		// Bare ids get qualified before they reach the store.
		assert.Equal(t, []string{"user:u7"}, caretaker.Patients)
	})

	t.Run("unknown caretaker is a 404", func(t *testing.T) {
		h := handlers.NewCaretakerHandler(newMockCaretakerStore())
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/caretaker/assign",
			`{"caretakerId":"ghost","patientId":"u7"}`)

		require.NoError(t, h.Assign(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		h := handlers.NewCaretakerHandler(newMockCaretakerStore())
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/caretaker/assign",
			`{"caretakerId":"cx1"}`)

		require.NoError(t, h.Assign(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
