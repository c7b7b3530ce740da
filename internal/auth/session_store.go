package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"Mansoor88-6/nagster-console/internal/client"
	"Mansoor88-6/nagster-console/internal/models"
	"Mansoor88-6/nagster-console/internal/storage"

	"go.uber.org/zap"
)

// State is the session lifecycle state.
type State int

const (
	Unauthenticated State = iota
	Restoring
	Authenticated
)

func (s State) String() string {
	switch s {
	case Restoring:
		return "restoring"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Messages shown for failures raised before any request is sent.
const (
	MsgFillAllFields = "Please fill in all fields"
	MsgAuthFailed    = "Authentication failed"
	MsgInvalidRole   = "role must be 'admin' or 'manager'"
	MsgInvalidUser   = "Invalid user data received"
)

var ErrSessionExpired = errors.New("session expired")

// ErrSuperseded is returned by a restore whose outcome was discarded because
// a login or logout happened while it was in flight.
var ErrSuperseded = errors.New("session changed while it was being validated")

// API is the slice of the backend the session needs.
type API interface {
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	Signup(ctx context.Context, username, password, role string) (*models.AuthResponse, error)
	Me(ctx context.Context, token string) (*models.UserProfile, error)
	SetToken(token string)
}

// Snapshot is an immutable copy of the session.
type Snapshot struct {
	State   State
	Session models.Session
}

func (s Snapshot) Username() string {
	if s.Session.User == nil {
		return ""
	}
	return s.Session.User.Username
}

// Store owns the session. It persists token and role, validates them with
// /auth/me and notifies subscribers on every transition.
type Store struct {
	api     API
	storage storage.Store
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	state   State
	session models.Session
	// gen is bumped by login and logout so a slow restore cannot resurrect
	// a session that was replaced while it was in flight.
	gen    uint64
	subs   map[int]func(Snapshot)
	nextID int
}

func NewStore(api API, store storage.Store, logger *zap.Logger) *Store {
	return &Store{
		api:     api,
		storage: store,
		logger:  logger,
		now:     time.Now,
		subs:    make(map[int]func(Snapshot)),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state, Session: s.session}
	if s.session.User != nil {
		u := *s.session.User
		snap.Session.User = &u
	}
	return snap
}

// Subscribe registers fn for transitions and returns its cancel func.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// transition applies mutate under the lock and then notifies outside it.
func (s *Store) transition(mutate func()) {
	s.mu.Lock()
	mutate()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.api.SetToken(snap.Session.Token)
	for _, fn := range subs {
		fn(snap)
	}
}

// Boot loads the persisted token and role. It returns true when both were
// found and the store entered Restoring; the caller must then run Restore.
func (s *Store) Boot() bool {
	token, okToken, err := s.storage.Get(storage.KeyToken)
	if err != nil {
		s.logger.Warn("Failed to read stored token", zap.Error(err))
		return false
	}
	role, okRole, err := s.storage.Get(storage.KeyRole)
	if err != nil {
		s.logger.Warn("Failed to read stored role", zap.Error(err))
		return false
	}
	if !okToken || !okRole || token == "" || role == "" {
		return false
	}

	s.transition(func() {
		s.state = Restoring
		s.session = models.Session{Token: token, Role: role}
	})
	s.logger.Info("Restoring stored session", zap.String("role", role))
	return true
}

// Restore validates the current token. Any failure logs the user out. If a
// login or logout overtakes it, the newer transition stands and Restore
// returns ErrSuperseded.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	token := s.session.Token
	role := s.session.Role
	gen := s.gen
	s.mu.Unlock()

	if token == "" {
		s.Logout()
		return client.Validation("no session to restore")
	}

	if claims, err := ParseClaims(token); err == nil && claims.Expired(s.now()) {
		s.logger.Info("Stored token expired, logging out")
		s.Logout()
		return &client.Error{Kind: client.KindAuth, Endpoint: "/auth/me", Message: ErrSessionExpired.Error(), Err: ErrSessionExpired}
	}

	profile, err := s.api.Me(ctx, token)
	if err == nil && (profile == nil || profile.Username == "") {
		err = &client.Error{Kind: client.KindDecode, Endpoint: "/auth/me", Message: MsgInvalidUser}
	}

	s.mu.Lock()
	stale := gen != s.gen
	s.mu.Unlock()
	if stale {
		return ErrSuperseded
	}

	if err != nil {
		s.logger.Warn("Session restore failed", zap.Error(err))
		s.logoutIf(gen)
		return err
	}

	if profile.Role == "" {
		profile.Role = role
	}
	applied := false
	s.transition(func() {
		if s.gen != gen {
			return
		}
		s.state = Authenticated
		s.session.User = profile
		applied = true
	})
	if !applied {
		return ErrSuperseded
	}
	s.logger.Info("Session restored", zap.String("username", profile.Username), zap.String("role", role))
	return nil
}

// Login authenticates and, on success, persists the session and validates
// it. A nil error means the store is Authenticated.
func (s *Store) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return client.Validation(MsgFillAllFields)
	}

	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn("Login failed", zap.String("username", username), zap.Error(err))
		return err
	}
	if resp.AccessToken == "" {
		return noTokenError("/auth/login", resp)
	}
	return s.establish(ctx, resp)
}

// Signup creates an account. loggedIn is true when the backend returned a
// token and the new session was established; false with a nil error means
// the account exists and the user must sign in.
func (s *Store) Signup(ctx context.Context, username, password, role string) (loggedIn bool, err error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return false, client.Validation(MsgFillAllFields)
	}
	if role == "" {
		role = models.RoleAdmin
	}
	if !models.ValidRole(role) {
		return false, client.Validation(MsgInvalidRole)
	}

	resp, err := s.api.Signup(ctx, username, password, role)
	if err != nil {
		s.logger.Warn("Signup failed", zap.String("username", username), zap.Error(err))
		return false, err
	}
	if resp.AccessToken == "" {
		s.logger.Info("Account created without token", zap.String("username", username))
		return false, nil
	}
	if err := s.establish(ctx, resp); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) establish(ctx context.Context, resp *models.AuthResponse) error {
	role := resp.Role
	if role == "" {
		if claims, err := ParseClaims(resp.AccessToken); err == nil {
			role = claims.Role
		}
	}
	if role == "" {
		return noTokenError("/auth/login", resp)
	}

	if err := s.storage.Set(storage.KeyToken, resp.AccessToken); err != nil {
		s.logger.Error("Failed to persist token", zap.Error(err))
	}
	if err := s.storage.Set(storage.KeyRole, role); err != nil {
		s.logger.Error("Failed to persist role", zap.Error(err))
	}

	s.transition(func() {
		s.gen++
		s.state = Restoring
		s.session = models.Session{Token: resp.AccessToken, Role: role}
	})
	return s.Restore(ctx)
}

// Logout clears memory and storage. Calling it again is harmless.
func (s *Store) Logout() {
	s.transition(func() {
		s.gen++
		s.state = Unauthenticated
		s.session = models.Session{}
	})
	if err := s.storage.Delete(storage.KeyToken, storage.KeyRole); err != nil {
		s.logger.Error("Failed to clear stored session", zap.Error(err))
	}
}

// logoutIf logs out only if no login or logout happened since gen.
func (s *Store) logoutIf(gen uint64) {
	s.mu.Lock()
	current := s.gen == gen
	s.mu.Unlock()
	if current {
		s.Logout()
	}
}

func noTokenError(endpoint string, resp *models.AuthResponse) *client.Error {
	msg := MsgAuthFailed
	if resp != nil && resp.Detail != "" {
		msg = resp.Detail
	}
	return &client.Error{Kind: client.KindAuth, Endpoint: endpoint, Message: msg}
}
