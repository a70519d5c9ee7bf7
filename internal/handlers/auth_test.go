package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/brightmind-app/brightmind/internal/auth"
	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/brightmind-app/brightmind/internal/email"
	"github.com/brightmind-app/brightmind/internal/handlers"
	"github.com/brightmind-app/brightmind/internal/middleware"
	"github.com/brightmind-app/brightmind/internal/storage"
)

// mockUserStore is an in-memory UserRepository shared by the handler tests.
type mockUserStore struct {
	users       map[string]*domain.User // keyed by canonical id
	nextID      int
	loginCalls  int
	loginPoints int
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserAlreadyExists
		}
	}
	m.nextID++
	recordID := surrealmodels.NewRecordID("user", fmt.Sprintf("u%d", m.nextID))
	u.ID = &recordID
	u.CreatedAt = time.Now()
	m.users[recordID.String()] = u
	return u, nil
}

func (m *mockUserStore) FindByEmail(ctx context.Context, address string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == address {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func (m *mockUserStore) List(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

func (m *mockUserStore) UpdateName(ctx context.Context, id, name string) error {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.Name = name
	return nil
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id, hash string) error {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

func (m *mockUserStore) UpdatePhoto(ctx context.Context, id, path string) error {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.Photo = path
	return nil
}

func (m *mockUserStore) UpdateSettings(ctx context.Context, id string, s domain.Settings) (*domain.Settings, error) {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Settings = s
	return &u.Settings, nil
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, id string, p domain.Profile) (*domain.Profile, error) {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Profile = p
	return &u.Profile, nil
}

func (m *mockUserStore) RecordLogin(ctx context.Context, id string, points int, a domain.Activity) error {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	m.loginCalls++
	m.loginPoints += points
	u.Profile.Points += points
	u.Profile.TotalLogins++
	u.Profile.Activities = append(u.Profile.Activities, a)
	return nil
}

// seedUser registers a user directly in the store with a real bcrypt hash.
func (m *mockUserStore) seedUser(t *testing.T, name, address, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u, err := m.Create(context.Background(), &domain.User{Name: name, Email: address, Password: hash})
	require.NoError(t, err)
	return u
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handlers.NewValidator()
	return e
}

// doJSON runs a JSON request through a fresh echo context and returns the
// recorder plus the context for handlers invoked directly.
func doJSON(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser stores a sanitized user in the context the way the auth middleware
// does.
func asUser(c echo.Context, u *domain.User) {
	sanitized := u.Sanitized()
	c.Set(middleware.UserContextKey, &sanitized)
}

func newAuthHandler(store *mockUserStore) (*handlers.AuthHandler, *auth.TokenManager, *storage.AferoStore) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	photos := storage.NewAferoStore(afero.NewMemMapFs())
	return handlers.NewAuthHandler(store, tokens, &email.LogSender{}, photos), tokens, photos
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("creates a user with a hashed password", func(t *testing.T) {
		store := newMockUserStore()
		h, _, _ := newAuthHandler(store)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/register",
			`{"name":"Alice","email":"alice@example.com","password":"supersecret"}`)

		require.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		u, err := store.FindByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.NotEqual(t, "supersecret", u.Password)
		assert.True(t, auth.ComparePassword("supersecret", u.Password))
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		store := newMockUserStore()
		store.seedUser(t, "Alice", "alice@example.com", "supersecret")
		h, _, _ := newAuthHandler(store)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/register",
			`{"name":"Other","email":"alice@example.com","password":"differentpw"}`)

		require.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "already exists")
	})

	t.Run("rejects a short password without touching the store", func(t *testing.T) {
		store := newMockUserStore()
		h, _, _ := newAuthHandler(store)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/register",
			`{"name":"Alice","email":"alice@example.com","password":"short"}`)

		require.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, store.users)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("issues a token and records the login", func(t *testing.T) {
		store := newMockUserStore()
		u := store.seedUser(t, "Alice", "alice@example.com", "supersecret")
		h, tokens, _ := newAuthHandler(store)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/login",
			`{"email":"alice@example.com","password":"supersecret"}`)

		require.NoError(t, h.Login(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string `json:"token"`
			User  struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "alice@example.com", resp.User.Email)
		assert.Empty(t, resp.User.Password)

		subject, err := tokens.Validate(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), subject)

		assert.Equal(t, 1, store.loginCalls)
		assert.Equal(t, 2, store.loginPoints)
		assert.Equal(t, 1, u.Profile.TotalLogins)
		require.Len(t, u.Profile.Activities, 1)
		assert.Equal(t, "login", u.Profile.Activities[0].Type)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		store := newMockUserStore()
		store.seedUser(t, "Alice", "alice@example.com", "supersecret")
		h, _, _ := newAuthHandler(store)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/login",
			`{"email":"alice@example.com","password":"wrongwrong"}`)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
		assert.Equal(t, 0, store.loginCalls)
	})

	t.Run("rejects an unknown email with the same message", func(t *testing.T) {
		store := newMockUserStore()
		h, _, _ := newAuthHandler(store)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/login",
			`{"email":"nobody@example.com","password":"supersecret"}`)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	})
}

func TestAuthHandler_GoogleRegister(t *testing.T) {
	t.Run("creates an account for a new email", func(t *testing.T) {
		store := newMockUserStore()
		h, tokens, _ := newAuthHandler(store)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/googleRegister",
			`{"email":"alice@gmail.com"}`)

		require.NoError(t, h.GoogleRegister(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		u, err := store.FindByEmail(context.Background(), "alice@gmail.com")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Empty(t, u.Password)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		subject, err := tokens.Validate(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), subject)
	})

	t.Run("reuses an existing account", func(t *testing.T) {
		store := newMockUserStore()
		store.seedUser(t, "Alice", "alice@gmail.com", "supersecret")
		h, _, _ := newAuthHandler(store)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/googleRegister",
			`{"email":"alice@gmail.com"}`)

		require.NoError(t, h.GoogleRegister(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Len(t, store.users, 1)
	})
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	t.Run("replaces the hash when the current password matches", func(t *testing.T) {
		store := newMockUserStore()
		u := store.seedUser(t, "Alice", "alice@example.com", "supersecret")
		h, _, _ := newAuthHandler(store)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/changePassword",
			`{"currentPassword":"supersecret","newPassword":"evenmoresecret"}`)
		asUser(c, u)

		require.NoError(t, h.ChangePassword(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, auth.ComparePassword("evenmoresecret", u.Password))
	})

	t.Run("rejects a wrong current password", func(t *testing.T) {
		store := newMockUserStore()
		u := store.seedUser(t, "Alice", "alice@example.com", "supersecret")
		h, _, _ := newAuthHandler(store)
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/changePassword",
			`{"currentPassword":"wrongwrong","newPassword":"evenmoresecret"}`)
		asUser(c, u)

		require.NoError(t, h.ChangePassword(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.True(t, auth.ComparePassword("supersecret", u.Password))
	})
}

func TestAuthHandler_SettingsAndProfile(t *testing.T) {
	store := newMockUserStore()
	u := store.seedUser(t, "Alice", "alice@example.com", "supersecret")
	h, _, _ := newAuthHandler(store)

	t.Run("updates settings as one document", func(t *testing.T) {
		c, rec := doJSON(newTestEcho(), http.MethodPut, "/api/auth/settings",
			`{"notifications":true,"emailReminders":false,"theme":"dark","language":"de"}`)
		asUser(c, u)

		require.NoError(t, h.UpdateSettings(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "dark", u.Settings.Theme)
		assert.Equal(t, "de", u.Settings.Language)
		assert.True(t, u.Settings.Notifications)
	})

	t.Run("change user name", func(t *testing.T) {
		c, rec := doJSON(newTestEcho(), http.MethodPost, "/api/auth/changeUserName",
			`{"newUserName":"Alicia"}`)
		asUser(c, u)

		require.NoError(t, h.ChangeUserName(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Alicia", u.Name)
	})

	t.Run("profile endpoints require an authenticated user", func(t *testing.T) {
		c, rec := doJSON(newTestEcho(), http.MethodGet, "/api/auth/profile", "")

		require.NoError(t, h.GetProfile(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_Photo(t *testing.T) {
	store := newMockUserStore()
	u := store.seedUser(t, "Alice", "alice@example.com", "supersecret")
	h, _, photos := newAuthHandler(store)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-really-a-png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/profile/photo", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := newTestEcho().NewContext(req, rec)
	asUser(c, u)

	require.NoError(t, h.UploadPhoto(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Record ids contain a colon; the stored filename must not.
	expectedPath := "photos/" + strings.ReplaceAll(u.ID.String(), ":", "-") + ".png"
	assert.Equal(t, expectedPath, u.Photo)

	rc, err := photos.Get(context.Background(), expectedPath)
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "not-really-a-png", string(content))

	t.Run("streams the stored photo back", func(t *testing.T) {
		c, rec := doJSON(newTestEcho(), http.MethodGet, "/api/auth/profile/photo", "")
		asUser(c, u)

		require.NoError(t, h.GetPhoto(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, "not-really-a-png", rec.Body.String())
	})
}
