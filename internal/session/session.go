// Package session owns the authentication state: the session token, its
// persisted copy and the validated user identity. It is the only writer of
// the persisted token; everything else just reads the current value.
package session

import (
	"context"

	"retrievex-cli/internal/api"
	"retrievex-cli/internal/store"
)

// Status is the session lifecycle state.
type Status int

const (
	Unauthenticated Status = iota
	// Pending holds only while an identity-validation call is outstanding.
	Pending
	// Authenticated implies a non-empty token. The user may briefly be nil
	// right after login, until the next validation pass fills it in.
	Authenticated
	// Invalid is the transient result of a failed validation; it immediately
	// degrades to Unauthenticated via Logout.
	Invalid
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	case Invalid:
		return "invalid"
	default:
		return "unauthenticated"
	}
}

// Navigation targets signaled to the caller. The store never navigates
// itself; it hands the address back so the page layer stays in charge.
const (
	LandingAddress = "#/notebooks"
	HomeAddress    = "#/"
)

// Validator is the identity check against the backend (GET /me).
type Validator interface {
	Me(ctx context.Context, token string) (api.User, error)
}

// Store holds the session. It is written from one goroutine only (the CLI
// call path or the TUI update loop); validation results produced elsewhere
// are fed back in through CompleteValidate.
type Store struct {
	status Status
	token  string
	user   *api.User
}

func NewStore() *Store { return &Store{} }

func (s *Store) Status() Status { return s.status }
func (s *Store) Token() string  { return s.token }
func (s *Store) User() *api.User {
	return s.user
}

// Authenticated reports whether protected pages may render.
func (s *Store) Authenticated() bool { return s.status == Authenticated }

// BeginInit reads the persisted token. With no token the session is
// unauthenticated and done; with one, the session enters Pending and the
// caller must run the validation call and feed the result to CompleteValidate.
func (s *Store) BeginInit() (token string, ok bool, err error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return "", false, err
	}
	if cfg.SessionToken == "" {
		s.status = Unauthenticated
		s.token = ""
		s.user = nil
		return "", false, nil
	}
	s.token = cfg.SessionToken
	s.status = Pending
	return s.token, true, nil
}

// CompleteValidate applies the outcome of an identity-validation call. Any
// failure (bad status, network error) invalidates the session and degrades to
// the logged-out state, clearing the persisted token.
func (s *Store) CompleteValidate(user api.User, valErr error) error {
	if valErr != nil {
		s.status = Invalid
		_, err := s.Logout()
		return err
	}
	s.user = &user
	s.status = Authenticated
	return nil
}

// Init is the synchronous convenience used by the CLI: BeginInit plus the
// validation round-trip.
func (s *Store) Init(ctx context.Context, v Validator) error {
	token, ok, err := s.BeginInit()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	user, valErr := v.Me(ctx, token)
	return s.CompleteValidate(user, valErr)
}

// Login persists the token and optimistically marks the session
// authenticated; the next validation pass fills in (or rejects) the user.
// It returns the address the caller should navigate to.
func (s *Store) Login(token string) (navTo string, err error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return "", err
	}
	cfg.SessionToken = token
	if err := store.SaveConfig(cfg); err != nil {
		return "", err
	}
	s.token = token
	s.user = nil
	s.status = Authenticated
	return LandingAddress, nil
}

// Logout clears the persisted token and resets to unauthenticated,
// regardless of prior status. Server-side session removal is the caller's
// (best-effort) concern. It returns the address to navigate to.
func (s *Store) Logout() (navTo string, err error) {
	cfg, cfgErr := store.LoadConfig()
	if cfgErr == nil {
		cfg.SessionToken = ""
		cfgErr = store.SaveConfig(cfg)
	}
	s.token = ""
	s.user = nil
	s.status = Unauthenticated
	return HomeAddress, cfgErr
}
