package types

import (
	"strings"
	"time"
)

// Session is the authenticated identity handed to the rest of the app.
// Panels only ever see a copy.
type Session struct {
	UserID       string    `json:"user_id" yaml:"user_id"`
	AccessToken  string    `json:"access_token" yaml:"access_token"`
	RefreshToken string    `json:"refresh_token" yaml:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at" yaml:"expires_at"`
	Email        string    `json:"email" yaml:"email"`
	DisplayName  string    `json:"display_name,omitempty" yaml:"display_name,omitempty"`
}

// Expired reports whether the access token is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Profile holds the fields collected on sign-up.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName joins the profile names, falling back to the email.
func (p Profile) DisplayName(email string) string {
	name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if name == "" {
		return email
	}
	return name
}

// UserRow is the row inserted into the users table after sign-up.
type UserRow struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
