// Package session owns the authenticated identity of the client process:
// restore at start, login, register and logout, with the session persisted
// under the "session" key.
//
// Overlapping Login/Register calls follow a last-issued-wins policy. Every
// call takes a request token; when it settles, its result is applied only if
// no newer call (or Logout) was issued meanwhile. Superseded calls return
// ErrSuperseded and change nothing, so the session and the loading flag are
// always consistent with the newest request.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/librarydesk/internal/client/models"
	"github.com/dmitrijs2005/librarydesk/internal/client/persist"
	"github.com/dmitrijs2005/librarydesk/internal/client/repositories/identities"
	"github.com/dmitrijs2005/librarydesk/internal/common"
	"github.com/dmitrijs2005/librarydesk/internal/cryptox"
	"github.com/dmitrijs2005/librarydesk/internal/logging"
	"github.com/dmitrijs2005/librarydesk/internal/observe"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrSuperseded is returned by a Login or Register whose result was
	// discarded because a newer request or a Logout was issued first.
	ErrSuperseded = errors.New("request superseded by a newer one")

	ErrAlreadyInitialized = errors.New("session store already initialized")
)

// State is what subscribers receive on every change.
type State struct {
	Session *models.Session
	Loading bool
}

// Authenticated reports whether the state carries a session.
func (s State) Authenticated() bool {
	return s.Session != nil
}

type Store struct {
	mu   sync.Mutex
	hub  observe.Hub[State]
	dir  identities.Directory
	kv   persist.Store
	log  logging.Logger
	wait time.Duration

	validate *validator.Validate

	session     *models.Session
	initialized bool
	pending     bool
	token       uint64
}

// NewStore builds a store over the credential directory and the persistent
// store. latency is how long Login and Register wait before settling; zero
// settles immediately. The store reports Loading until Initialize runs.
func NewStore(dir identities.Directory, kv persist.Store, log logging.Logger, latency time.Duration) *Store {
	return &Store{
		dir:      dir,
		kv:       kv,
		log:      log.With("component", "session"),
		wait:     latency,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Initialize restores the persisted session, if there is a well-formed one,
// and ends the initial loading phase. It must run once, before any
// role-gated view is decided.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return ErrAlreadyInitialized
	}

	if raw, ok := s.kv.Get(ctx, common.SessionKey); ok {
		var restored models.Session
		err := json.Unmarshal([]byte(raw), &restored)
		switch {
		case err != nil:
			s.log.Warn(ctx, "discarding malformed persisted session", "err", err)
			s.kv.Remove(ctx, common.SessionKey)
		case !restored.Valid():
			s.log.Warn(ctx, "discarding incomplete persisted session", "id", restored.ID)
			s.kv.Remove(ctx, common.SessionKey)
		default:
			s.session = &restored
			s.log.Info(ctx, "session restored", "email", restored.Email, "role", restored.Role)
		}
	}

	s.initialized = true
	s.publish()
	return nil
}

// Login authenticates email/password against the credential directory. On
// failure it returns common.ErrInvalidCredentials and the current session is
// left as it was.
func (s *Store) Login(ctx context.Context, email, password string) (*models.Session, error) {
	token := s.begin()
	if err := s.sleep(ctx); err != nil {
		s.abandon(token)
		return nil, err
	}

	s.mu.Lock()
	if token != s.token {
		s.mu.Unlock()
		return nil, ErrSuperseded
	}

	identity, err := s.dir.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.pending = false
		s.publish()
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if identity == nil || !cryptox.CheckPassword([]byte(password), identity.Salt, identity.Verifier) {
		s.pending = false
		s.publish()
		s.log.Info(ctx, "login rejected", "email", email)
		return nil, common.ErrInvalidCredentials
	}

	issued := identity.Session()
	s.issue(ctx, issued)
	s.publish()

	s.log.Info(ctx, "login succeeded", "email", issued.Email, "role", issued.Role)
	return issued, nil
}

// Register creates a user-role identity and logs it in. The duplicate check,
// the directory insert and the session issuance happen under one lock, so no
// other caller of this store can observe the new identity without its
// session. A taken email yields common.ErrEmailAlreadyExists and changes
// nothing.
func (s *Store) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	in := registration{Name: name, Email: email, Password: password}
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}

	token := s.begin()
	if err := s.sleep(ctx); err != nil {
		s.abandon(token)
		return nil, err
	}

	salt, verifier := cryptox.NewVerifier([]byte(password))
	identity := &models.Identity{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      models.RoleUser,
		Salt:      salt,
		Verifier:  verifier,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	if token != s.token {
		s.mu.Unlock()
		return nil, ErrSuperseded
	}

	if err := s.dir.Insert(ctx, identity); err != nil {
		s.pending = false
		s.publish()
		if errors.Is(err, common.ErrEmailAlreadyExists) {
			s.log.Info(ctx, "registration rejected, email taken", "email", email)
			return nil, common.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	issued := identity.Session()
	s.issue(ctx, issued)
	s.publish()

	s.log.Info(ctx, "registered", "email", issued.Email, "id", issued.ID)
	return issued, nil
}

// Logout clears the session and its persisted copy. It also supersedes any
// in-flight Login or Register. Calling it again is harmless.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token++
	s.pending = false
	had := s.session != nil
	s.session = nil
	s.kv.Remove(ctx, common.SessionKey)
	s.publish()

	if had {
		s.log.Info(ctx, "logged out")
	}
}

// Current returns the current state.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

// Session returns the current session or nil.
func (s *Store) Session() *models.Session {
	return s.Current().Session
}

func (s *Store) IsAuthenticated() bool {
	return s.Current().Authenticated()
}

func (s *Store) Loading() bool {
	return s.Current().Loading
}

// Subscribe registers fn for every state change. fn may read the store but
// must not call Login, Register, Logout or Initialize.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.hub.Subscribe(fn)
}

type registration struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=6,max=128"`
}

// begin issues a new request token and enters the loading state.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	s.token++
	token := s.token
	s.pending = true
	s.publish()
	return token
}

// abandon ends the loading state for a request that will not settle, unless
// a newer request already owns it.
func (s *Store) abandon(token uint64) {
	s.mu.Lock()
	if token != s.token {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.publish()
}

func (s *Store) sleep(ctx context.Context) error {
	if s.wait <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// issue replaces the session and persists it. Callers hold s.mu.
func (s *Store) issue(ctx context.Context, issued *models.Session) {
	s.session = issued
	s.pending = false

	b, err := json.Marshal(issued)
	if err != nil {
		s.log.Error(ctx, "cannot encode session", "err", err)
		return
	}
	s.kv.Set(ctx, common.SessionKey, string(b))
}

func (s *Store) state() State {
	return State{Session: s.session, Loading: !s.initialized || s.pending}
}

// publish releases s.mu and notifies subscribers of the state it held.
func (s *Store) publish() {
	s.hub.PublishAfter(s.mu.Unlock, s.state())
}
