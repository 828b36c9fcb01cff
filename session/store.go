package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"clementus360/study-assistant/types"
)

// AuthProvider is the auth collaborator. OnChange listeners receive the new
// session, or nil after sign-out.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string, profile types.Profile) error
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (*types.Session, error)
	OnChange(listener func(*types.Session)) (unsubscribe func())
}

type Listener func(*types.Session)

// Store holds the current identity. After construction it changes only when
// the provider reports an auth-state change.
type Store struct {
	provider AuthProvider

	mu        sync.RWMutex
	current   *types.Session
	notified  bool
	listeners map[int]Listener
	nextID    int

	unsubscribe func()
}

// NewStore queries the provider once and then follows its notifications.
func NewStore(ctx context.Context, provider AuthProvider) (*Store, error) {
	s := &Store{
		provider:  provider,
		listeners: make(map[int]Listener),
	}
	s.unsubscribe = provider.OnChange(s.apply)

	current, err := provider.CurrentSession(ctx)
	if err != nil {
		s.unsubscribe()
		return nil, fmt.Errorf("load current session: %w", err)
	}

	s.mu.Lock()
	// a notification may already have landed while we were querying
	if !s.notified {
		s.current = copySession(current)
	}
	s.mu.Unlock()
	return s, nil
}

func copySession(sess *types.Session) *types.Session {
	if sess == nil {
		return nil
	}
	c := *sess
	return &c
}

func (s *Store) apply(sess *types.Session) {
	s.mu.Lock()
	s.current = copySession(sess)
	s.notified = true
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(copySession(sess))
	}
}

// Current returns a copy of the active session, or nil.
func (s *Store) Current() *types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.current)
}

func (s *Store) SignedIn() bool {
	return s.Current() != nil
}

func (s *Store) Subscribe(listener Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return types.NewValidationError("Email and password are required.")
	}
	return s.provider.SignIn(ctx, email, password)
}

type SignUpForm struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (f SignUpForm) Validate() error {
	if strings.TrimSpace(f.FirstName) == "" || strings.TrimSpace(f.LastName) == "" {
		return types.NewValidationError("First and last name are required.")
	}
	if strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return types.NewValidationError("Email and password are required.")
	}
	if f.Password != f.ConfirmPassword {
		return types.NewValidationError("Passwords do not match.")
	}
	return nil
}

func (s *Store) SignUp(ctx context.Context, form SignUpForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	profile := types.Profile{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
	}
	return s.provider.SignUp(ctx, strings.TrimSpace(form.Email), form.Password, profile)
}

// SignOut asks the provider to end the session. Current keeps returning the
// old session until the provider's notification clears it.
func (s *Store) SignOut(ctx context.Context) error {
	return s.provider.SignOut(ctx)
}

func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
