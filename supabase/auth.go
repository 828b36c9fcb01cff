package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"clementus360/study-assistant/config"
	"clementus360/study-assistant/prefs"
	"clementus360/study-assistant/types"

	"github.com/sirupsen/logrus"
	"github.com/supabase-community/supabase-go"

	gotrue "github.com/supabase-community/gotrue-go/types"
)

// Auth is the session.AuthProvider backed by Supabase auth. The current
// session is persisted under config.KeyAuthSession so a restart stays signed in.
type Auth struct {
	client *supabase.Client
	kv     prefs.KV
	log    logrus.FieldLogger
	now    func() time.Time

	mu        sync.Mutex
	listeners map[int]func(*types.Session)
	nextID    int
}

type AuthOption func(*Auth)

func WithAuthLogger(log logrus.FieldLogger) AuthOption {
	return func(a *Auth) {
		a.log = log
	}
}

func withClock(now func() time.Time) AuthOption {
	return func(a *Auth) {
		a.now = now
	}
}

func NewAuth(client *supabase.Client, kv prefs.KV, opts ...AuthOption) *Auth {
	a := &Auth{
		client:    client,
		kv:        kv,
		log:       config.Logger,
		now:       time.Now,
		listeners: map[int]func(*types.Session){},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Auth) OnChange(listener func(*types.Session)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = listener
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *Auth) notify(s *types.Session) {
	a.mu.Lock()
	listeners := make([]func(*types.Session), 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	for _, l := range listeners {
		var cp *types.Session
		if s != nil {
			c := *s
			cp = &c
		}
		l(cp)
	}
}

func (a *Auth) SignIn(ctx context.Context, email, password string) error {
	gs, err := a.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return authError(err)
	}

	s, err := a.fromGotrue(gs)
	if err != nil {
		return err
	}
	if err := a.persist(s); err != nil {
		return err
	}
	a.log.WithField("user_id", s.UserID).Info("Signed in")
	a.notify(s)
	return nil
}

// SignUp registers the account with the names as user metadata and then
// records the profile row in the users table. When the project requires
// email confirmation no session comes back and the user stays signed out.
func (a *Auth) SignUp(ctx context.Context, email, password string, profile types.Profile) error {
	resp, err := a.client.Auth.Signup(gotrue.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"first_name": profile.FirstName,
			"last_name":  profile.LastName,
		},
	})
	if err != nil {
		return authError(err)
	}

	if resp.Session.AccessToken != "" {
		a.client.UpdateAuthSession(resp.Session)
	}

	row := types.UserRow{
		ID:        resp.User.ID.String(),
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     email,
	}
	if _, _, err := a.client.From("users").Insert(row, false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}

	if resp.Session.AccessToken == "" {
		a.log.WithField("email", email).Info("Signed up, awaiting email confirmation")
		return nil
	}

	s, err := a.fromGotrue(resp.Session)
	if err != nil {
		return err
	}
	if err := a.persist(s); err != nil {
		return err
	}
	a.notify(s)
	return nil
}

// SignOut revokes the refresh token on the server and forgets the local
// session. A failed revoke is logged; the local sign-out still happens.
func (a *Auth) SignOut(ctx context.Context) error {
	s, err := a.load()
	if err != nil {
		a.log.WithError(err).Warn("Discarding unreadable stored session")
	}
	if s != nil && s.AccessToken != "" {
		if err := a.client.Auth.WithToken(s.AccessToken).Logout(); err != nil {
			a.log.WithError(authError(err)).Warn("Failed to revoke session on server")
		}
	}

	if err := a.kv.Delete(config.KeyAuthSession); err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}
	a.notify(nil)
	return nil
}

// CurrentSession restores the stored session, refreshing it first when the
// access token has expired. A session that cannot be refreshed is dropped.
func (a *Auth) CurrentSession(ctx context.Context) (*types.Session, error) {
	s, err := a.load()
	if err != nil || s == nil {
		return nil, err
	}

	if !s.Expired(a.now()) {
		a.client.UpdateAuthSession(gotrue.Session{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken})
		return s, nil
	}

	gs, err := a.client.RefreshToken(s.RefreshToken)
	if err != nil {
		a.log.WithError(authError(err)).Warn("Stored session expired and could not be refreshed")
		if err := a.kv.Delete(config.KeyAuthSession); err != nil {
			return nil, fmt.Errorf("failed to clear stored session: %w", err)
		}
		return nil, nil
	}

	refreshed, err := a.fromGotrue(gs)
	if err != nil {
		return nil, err
	}
	if refreshed.DisplayName == refreshed.Email && s.DisplayName != "" {
		refreshed.DisplayName = s.DisplayName
	}
	if err := a.persist(refreshed); err != nil {
		return nil, err
	}
	return refreshed, nil
}

func (a *Auth) fromGotrue(gs gotrue.Session) (*types.Session, error) {
	claims, err := parseAccessToken(gs.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}

	expiresAt := claims.ExpiresAt
	if expiresAt.IsZero() && gs.ExpiresAt > 0 {
		expiresAt = time.Unix(gs.ExpiresAt, 0)
	}

	first, _ := gs.User.UserMetadata["first_name"].(string)
	last, _ := gs.User.UserMetadata["last_name"].(string)

	return &types.Session{
		UserID:       claims.Subject,
		AccessToken:  gs.AccessToken,
		RefreshToken: gs.RefreshToken,
		ExpiresAt:    expiresAt,
		Email:        gs.User.Email,
		DisplayName:  types.Profile{FirstName: first, LastName: last}.DisplayName(gs.User.Email),
	}, nil
}

func (a *Auth) persist(s *types.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := a.kv.Set(config.KeyAuthSession, string(data)); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (a *Auth) load() (*types.Session, error) {
	raw, ok, err := a.kv.Get(config.KeyAuthSession)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored session: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var s types.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored session: %w", err)
	}
	return &s, nil
}
