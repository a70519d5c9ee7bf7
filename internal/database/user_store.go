package database

import (
	"context"
	"fmt"

	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// SurrealUserStore encapsulates database operations for users using SurrealDB.
type SurrealUserStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

var _ domain.UserRepository = (*SurrealUserStore)(nil)

// NewSurrealUserStore creates a new SurrealUserStore.
func NewSurrealUserStore(db *surrealdb.DB, ns, dbName string) *SurrealUserStore {
	return &SurrealUserStore{db: db, ns: ns, dbName: dbName}
}

// Create persists a new user record. The password field must already contain
// the bcrypt hash.
func (s *SurrealUserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	existing, err := s.FindByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	query := `
		CREATE user CONTENT {
			name: $name,
			email: $email,
			password: $password,
			photo: $photo,
			settings: $settings,
			profile: $profile,
			createdAt: time::now()
		} RETURN AFTER
	`
	params := map[string]any{
		"name":     u.Name,
		"email":    u.Email,
		"password": u.Password,
		"photo":    u.Photo,
		"settings": u.Settings,
		"profile":  u.Profile,
	}

	created, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("user was not created or could not be fetched")
	}
	return created, nil
}

// FindByEmail queries for a single user by their email address.
// Returns (nil, nil) when no user has that address.
func (s *SurrealUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := "SELECT * FROM user WHERE email = $email"
	params := map[string]any{"email": email}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return user, nil
}

// FindByID resolves a canonical record id ("user:xyz") to a user.
func (s *SurrealUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := "SELECT * FROM type::record($id)"
	params := map[string]any{"id": id}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// List returns the directory view of all users: id, name, email and photo.
func (s *SurrealUserStore) List(ctx context.Context) ([]domain.User, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := "SELECT id, name, email, photo FROM user ORDER BY name ASC"
	users, err := Query[domain.User](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return users, nil
}

// UpdateName changes the user's display name.
func (s *SurrealUserStore) UpdateName(ctx context.Context, id, name string) error {
	return s.update(ctx, id, "name", name)
}

// UpdatePassword replaces the stored password hash.
func (s *SurrealUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.update(ctx, id, "password", passwordHash)
}

// UpdatePhoto records the storage path of the user's profile photo.
func (s *SurrealUserStore) UpdatePhoto(ctx context.Context, id, photoPath string) error {
	return s.update(ctx, id, "photo", photoPath)
}

// UpdateSettings replaces the settings document and returns the stored copy.
func (s *SurrealUserStore) UpdateSettings(ctx context.Context, id string, settings domain.Settings) (*domain.Settings, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := "UPDATE type::record($id) SET settings = $settings RETURN AFTER"
	params := map[string]any{"id": id, "settings": settings}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return &user.Settings, nil
}

// UpdateProfile replaces the profile document and returns the stored copy.
func (s *SurrealUserStore) UpdateProfile(ctx context.Context, id string, profile domain.Profile) (*domain.Profile, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := "UPDATE type::record($id) SET profile = $profile RETURN AFTER"
	params := map[string]any{"id": id, "profile": profile}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return &user.Profile, nil
}

// RecordLogin awards points, increments the login counter and appends the
// activity entry in a single statement.
func (s *SurrealUserStore) RecordLogin(ctx context.Context, id string, points int, a domain.Activity) error {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return fmt.Errorf("failed to set database scope: %w", err)
	}

	query := `
		UPDATE type::record($id) SET
			profile.points += $points,
			profile.totalLogins += 1,
			profile.activities += [$activity]
	`
	params := map[string]any{
		"id":     id,
		"points": points,
		"activity": map[string]any{
			"type":   a.Type,
			"title":  a.Title,
			"time":   a.Time,
			"points": a.Points,
		},
	}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

func (s *SurrealUserStore) update(ctx context.Context, id, field string, value any) error {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return fmt.Errorf("failed to set database scope: %w", err)
	}

	query := fmt.Sprintf("UPDATE type::record($id) SET %s = $value", field)
	params := map[string]any{"id": id, "value": value}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to update user %s: %w", field, err)
	}
	return nil
}
