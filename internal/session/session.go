// Package session owns the authenticated-identity lifecycle: the Session
// context object, the Unauthenticated → Authenticating → Authenticated state
// machine (with Registering as a side path), and the Manager wrapping
// credential sign-in, registration, sign-out, and account deletion.
package session

import "sync"

// State is the session lifecycle state.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateRegistering
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateRegistering:
		return "registering"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Identity is the authenticated principal. ID is the backend's opaque id;
// SessionID is assigned per sign-in.
type Identity struct {
	ID            string
	SessionID     string
	Authenticated bool
}

// Session holds the current identity and the last observed error. It is an
// explicitly passed context object, not a process-wide global; all mutation
// goes through the Manager.
type Session struct {
	mu          sync.Mutex
	state       State
	identity    Identity
	hasIdentity bool
	lastErr     error
}

func New() *Session {
	return &Session{state: StateUnauthenticated}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the current identity, if any.
func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.hasIdentity
}

// LastError returns the most recent operation failure, cleared by the next
// successful operation.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) set(state State, id Identity, hasIdentity bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.identity = id
	s.hasIdentity = hasIdentity
	s.lastErr = err
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Session) fail(state State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.lastErr = err
}
