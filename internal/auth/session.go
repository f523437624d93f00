package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/watchlist/internal/models"
	"github.com/desertthunder/watchlist/internal/shared"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const userKey = "user_id"

// UserStore is the subset of the user repository the [Manager] reads from.
type UserStore interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	First(ctx context.Context) (*models.User, error)
}

// CookieOptions configures the session cookie.
type CookieOptions struct {
	MaxAge int  // seconds; 0 makes a browser-session cookie
	Secure bool // send only over HTTPS
}

// NewCookieStore creates a [sessions.CookieStore] whose cookies are signed with secret and encrypted
// with a key derived from it.
//
// An empty secret gets random keys from [securecookie.GenerateRandomKey], so sessions do not
// survive a restart.
func NewCookieStore(secret string, opts CookieOptions) *sessions.CookieStore {
	var hashKey, blockKey []byte
	if secret == "" {
		hashKey = securecookie.GenerateRandomKey(64)
		blockKey = securecookie.GenerateRandomKey(32)
	} else {
		sum := sha256.Sum256([]byte("watchlist-session:" + secret))
		hashKey = []byte(secret)
		blockKey = sum[:]
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Manager tracks the current user across requests with a signed session cookie.
type Manager struct {
	store  sessions.Store
	name   string
	users  UserStore
	logger *log.Logger
}

// NewManager creates a [Manager] storing its state in the cookie called name.
func NewManager(store sessions.Store, name string, users UserStore, logger *log.Logger) *Manager {
	if name == "" {
		name = "watchlist"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{store: store, name: name, users: users, logger: logger}
}

// session returns the request's session. An undecodable cookie yields a fresh session, which
// later saves replace.
func (m *Manager) session(r *http.Request) *sessions.Session {
	session, err := m.store.Get(r, m.name)
	if err != nil {
		m.logger.Debug("discarding invalid session cookie", "error", err)
	}
	return session
}

// Current resolves the session to the authenticated user, loaded fresh from the store.
//
// It returns a nil user for anonymous requests, including sessions that reference a user that no
// longer exists. Errors are store failures only.
func (m *Manager) Current(r *http.Request) (*models.User, error) {
	id, ok := m.session(r).Values[userKey].(int64)
	if !ok {
		return nil, nil
	}

	user, err := m.users.Get(r.Context(), id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return user, nil
}

// Login authenticates username and password against the sole user and stores the user in the session,
// queueing flashes in the same cookie write.
//
// Returns [shared.ErrNoAdmin] when no user with credentials exists and [shared.ErrInvalidCredentials]
// for an unknown username or a wrong password alike.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, username, password string, flashes ...string) (*models.User, error) {
	user, err := m.users.First(r.Context())
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrNoAdmin
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.HasCredentials() {
		return nil, shared.ErrNoAdmin
	}

	passwordOK := VerifyPassword(password, user.PasswordHash)
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(user.Username)) == 1
	if !usernameOK || !passwordOK {
		return nil, shared.ErrInvalidCredentials
	}

	session := m.session(r)
	session.Values[userKey] = user.ID
	for _, f := range flashes {
		session.AddFlash(f)
	}
	if err := session.Save(r, w); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return user, nil
}

// Logout forgets the session user and queues flashes. Pending flash messages are kept.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request, flashes ...string) error {
	session := m.session(r)
	delete(session.Values, userKey)
	for _, f := range flashes {
		session.AddFlash(f)
	}
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Flash queues a message for the next rendered page.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, message string) error {
	session := m.session(r)
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Flashes pops the queued messages. Must be called before the response header is written.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) ([]string, error) {
	session := m.session(r)

	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil, nil
	}

	if err := session.Save(r, w); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	messages := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages, nil
}
