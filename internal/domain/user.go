package domain

import (
	"context"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Settings holds the per-user preference document. The frontend reads and
// writes it as one unit, so the repository treats it the same way.
type Settings struct {
	Notifications  bool   `json:"notifications"`
	EmailReminders bool   `json:"emailReminders"`
	Theme          string `json:"theme"`
	Language       string `json:"language"`
}

// Activity is a single gamification event recorded against a profile
// (a login, a completed game, an awarded badge).
type Activity struct {
	Type   string    `json:"type"`
	Title  string    `json:"title"`
	Time   time.Time `json:"time"`
	Points int       `json:"points"`
}

// Profile aggregates the gamification state shown on the profile page.
type Profile struct {
	Points      int        `json:"points"`
	TotalLogins int        `json:"totalLogins"`
	Activities  []Activity `json:"activities"`
}

// User represents the core user model in the application domain.
type User struct {
	ID        *surrealmodels.RecordID `json:"id,omitempty"`
	Name      string                  `json:"name,omitempty"`
	Email     string                  `json:"email"`
	Password  string                  `json:"password,omitempty"`
	Photo     string                  `json:"photo,omitempty"`
	Settings  Settings                `json:"settings"`
	Profile   Profile                 `json:"profile"`
	CreatedAt time.Time               `json:"createdAt,omitzero"`
}

// Sanitized returns a copy safe to hand to clients: the password hash never
// leaves the repository boundary.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// UserRepository defines the contract for user data storage operations.
// It lives in the domain because it's a requirement OF the domain, not
// of the database implementation.
type UserRepository interface {
	// Create persists a new user. u.Password must already be hashed.
	// Returns ErrUserAlreadyExists when the email is taken.
	Create(ctx context.Context, u *User) (*User, error)
	// FindByEmail returns (nil, nil) when no user has that address.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByID resolves a canonical record id ("user:xyz").
	FindByID(ctx context.Context, id string) (*User, error)
	// List returns every user's id, name and email for the chat directory.
	List(ctx context.Context) ([]User, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdatePhoto(ctx context.Context, id, photoPath string) error
	UpdateSettings(ctx context.Context, id string, s Settings) (*Settings, error)
	UpdateProfile(ctx context.Context, id string, p Profile) (*Profile, error)
	// RecordLogin bumps the login counter, awards points and appends the
	// activity entry in one statement.
	RecordLogin(ctx context.Context, id string, points int, a Activity) error
}
