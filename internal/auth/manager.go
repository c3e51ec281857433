package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"finease/internal/core"
	"finease/internal/log"
	"finease/internal/storage"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// UserStore persists the signed-in users backing sessions.
type UserStore interface {
	UpsertUser(ctx context.Context, u core.User) error
	GetUser(ctx context.Context, email string) (core.User, error)
	SetUserPassword(ctx context.Context, email, hash string) error
	GetUserPasswordHash(ctx context.Context, email string) (string, error)
}

type session struct {
	user      core.User
	expiresAt time.Time
}

// Listener receives the current user on sign-in and nil on sign-out.
type Listener func(*core.User)

// Manager owns session state and notifies listeners when it changes.
// Handlers read the current user from the session token rather than from
// any global, so two surfaces can never disagree about who is signed in.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]session
	listeners map[int]Listener
	nextID    int
	ttl       time.Duration
	users     UserStore
	logger    *log.Logger
}

func NewManager(users UserStore, ttl time.Duration, logger *log.Logger) *Manager {
	return &Manager{
		sessions:  make(map[string]session),
		listeners: make(map[int]Listener),
		ttl:       ttl,
		users:     users,
		logger:    logger.WithComponent(log.ComponentAuth),
	}
}

// SignIn records the user and opens a new session, returning its token.
func (m *Manager) SignIn(ctx context.Context, u core.User) (string, error) {
	if err := u.Validate(); err != nil {
		return "", err
	}

	if err := m.users.UpsertUser(ctx, u); err != nil {
		return "", fmt.Errorf("persist user: %w", err)
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	m.mu.Lock()
	m.sessions[token] = session{user: u, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "user signed in", log.FieldEmail, u.Email)
	m.notify(&u)
	return token, nil
}

// Verifier resolves an identity token to a user profile.
type Verifier interface {
	Verify(ctx context.Context, token string) (core.User, error)
}

// SignInWithGoogle verifies a Google ID token and opens a session for the
// user it identifies.
func (m *Manager) SignInWithGoogle(ctx context.Context, v Verifier, idToken string) (string, core.User, error) {
	u, err := v.Verify(ctx, idToken)
	if err != nil {
		return "", core.User{}, err
	}
	token, err := m.SignIn(ctx, u)
	if err != nil {
		return "", core.User{}, err
	}
	return token, u, nil
}

// SignInWithPassword checks the given password against the stored hash and
// opens a session for the matching user. Unknown emails, accounts without a
// password, and wrong passwords all return ErrInvalidCredentials.
func (m *Manager) SignInWithPassword(ctx context.Context, email, password string) (string, core.User, error) {
	hash, err := m.users.GetUserPasswordHash(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", core.User{}, fmt.Errorf("load password hash: %w", err)
	}
	if err := checkPassword(hash, password); err != nil {
		m.logger.WarnContext(ctx, "password sign-in rejected", log.FieldEmail, email)
		return "", core.User{}, err
	}

	u, err := m.users.GetUser(ctx, email)
	if err != nil {
		return "", core.User{}, fmt.Errorf("load user: %w", err)
	}

	token, err := m.SignIn(ctx, u)
	if err != nil {
		return "", core.User{}, err
	}
	return token, u, nil
}

// Restore resolves a session token back to its user.
func (m *Manager) Restore(ctx context.Context, token string) (core.User, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return core.User{}, ErrSessionNotFound
	}
	if time.Now().After(s.expiresAt) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return core.User{}, ErrSessionExpired
	}

	return s.user, nil
}

// SignOut drops the session. Unknown tokens are a no-op.
func (m *Manager) SignOut(ctx context.Context, token string) {
	m.mu.Lock()
	s, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if ok {
		m.logger.InfoContext(ctx, "user signed out", log.FieldEmail, s.user.Email)
		m.notify(nil)
	}
}

// Subscribe registers a listener for sign-in state changes and returns an
// unsubscribe function.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// CleanExpired drops expired sessions and returns how many were removed.
func (m *Manager) CleanExpired() int {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, s := range m.sessions {
		if now.After(s.expiresAt) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

func (m *Manager) notify(u *core.User) {
	m.mu.RLock()
	fns := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(u)
	}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
