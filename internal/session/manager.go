package session

import (
	"context"
	"regexp"
	"sync"

	"github.com/google/uuid"

	"github.com/khianvictorycalderon/profilesync/internal/identity"
	"github.com/khianvictorycalderon/profilesync/internal/logging"
	"github.com/khianvictorycalderon/profilesync/internal/remote"
)

// RFC-5322-lite: local part, @, domain with a dot and a 2+ char TLD.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// IdentityListener observes identity changes. authenticated=false deliveries
// carry a zero Identity.
type IdentityListener func(id Identity, authenticated bool)

// Manager drives the session state machine over a credential provider and
// the remote store holding profile records.
type Manager struct {
	session  *Session
	provider identity.CredentialProvider
	store    *remote.Accessor
	log      logging.Logger

	mu        sync.Mutex
	token     identity.Token
	pending   remote.Record
	listeners map[int]IdentityListener
	nextID    int
}

func NewManager(session *Session, provider identity.CredentialProvider, store *remote.Accessor, log logging.Logger) *Manager {
	return &Manager{
		session:   session,
		provider:  provider,
		store:     store,
		log:       log.With("module", "session"),
		listeners: make(map[int]IdentityListener),
	}
}

// Session exposes the managed session context object for read access.
func (m *Manager) Session() *Session { return m.session }

// OnIdentityChange registers a listener for identity transitions. The
// returned CancelFunc removes it.
func (m *Manager) OnIdentityChange(l IdentityListener) remote.CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.listeners[id] = l
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) notify(id Identity, authenticated bool) {
	m.mu.Lock()
	ls := make([]IdentityListener, 0, len(m.listeners))
	for _, l := range m.listeners {
		ls = append(ls, l)
	}
	m.mu.Unlock()

	for _, l := range ls {
		l(id, authenticated)
	}
}

// SignIn validates non-empty inputs locally, exchanges credentials, and on
// success publishes the new identity. On failure the session stays
// unauthenticated with a classified AuthError recorded.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	if email == "" {
		return m.validationError(&ValidationError{Kind: ValidationMissingField, Field: "email"})
	}
	if password == "" {
		return m.validationError(&ValidationError{Kind: ValidationMissingField, Field: "password"})
	}

	m.session.setState(StateAuthenticating)

	tok, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		mapped := mapAuthError(signInCodes, err)
		m.session.fail(StateUnauthenticated, mapped)
		return mapped
	}

	id := Identity{ID: tok.IdentityID, SessionID: uuid.NewString(), Authenticated: true}

	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()
	m.session.set(StateAuthenticated, id, true, nil)

	m.log.Info(ctx, "signed in", "identity", id.ID)
	m.notify(id, true)
	return nil
}

// Register validates inputs locally (no network call on failure), creates the
// credential, then merge-writes the initial profile record with a
// server-assigned creation timestamp. A profile-write failure after account
// creation leaves the session authenticated and returns ErrProfileIncomplete;
// CompleteRegistration retries the write.
func (m *Manager) Register(ctx context.Context, email, password, confirm string, fields map[string]string) error {
	if err := validateRegistration(email, password, confirm); err != nil {
		return m.validationError(err)
	}

	m.session.setState(StateRegistering)

	tok, err := m.provider.CreateAccount(ctx, email, password)
	if err != nil {
		mapped := mapAuthError(registerCodes, err)
		m.session.fail(StateUnauthenticated, mapped)
		return mapped
	}

	id := Identity{ID: tok.IdentityID, SessionID: uuid.NewString(), Authenticated: true}

	rec := remote.Record{}
	for name, value := range fields {
		rec[name] = remote.String(value)
	}
	rec["Email"] = remote.String(email)
	rec["AccountDateCreation"] = remote.ServerTimestamp()

	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()
	m.session.set(StateAuthenticated, id, true, nil)

	if err := m.store.Write(ctx, recordPath(id.ID), rec, true); err != nil {
		m.mu.Lock()
		m.pending = rec
		m.mu.Unlock()
		m.log.Error(ctx, "initial profile write failed", "identity", id.ID, "error", err)
		m.notify(id, true)
		return &profileIncompleteError{err: err}
	}

	m.log.Info(ctx, "registered", "identity", id.ID)
	m.notify(id, true)
	return nil
}

// CompleteRegistration retries the initial profile write left pending by a
// failed Register. It is a no-op when nothing is pending.
func (m *Manager) CompleteRegistration(ctx context.Context) error {
	id, ok := m.session.Identity()
	if !ok {
		return ErrNotAuthenticated
	}

	m.mu.Lock()
	rec := m.pending
	m.mu.Unlock()
	if rec == nil {
		return nil
	}

	if err := m.store.Write(ctx, recordPath(id.ID), rec, true); err != nil {
		return &profileIncompleteError{err: err}
	}

	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()
	return nil
}

// SignOut is unconditional: the session transitions to unauthenticated even
// if the provider-side sign-out fails, and listeners are notified so the
// orchestrator tears down subscriptions.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.provider.SignOut(ctx); err != nil {
		m.log.Warn(ctx, "provider sign-out failed", "error", err)
	}

	m.mu.Lock()
	m.token = identity.Token{}
	m.pending = nil
	m.mu.Unlock()
	m.session.set(StateUnauthenticated, Identity{}, false, nil)

	m.log.Info(ctx, "signed out")
	m.notify(Identity{}, false)
}

// DeleteAccount removes the profile record first, then the credential. A
// credential-delete failure after the record is gone surfaces
// PartialDeleteError with the identity id for manual reconciliation.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	id, ok := m.session.Identity()
	if !ok {
		return ErrNotAuthenticated
	}

	if err := m.store.Delete(ctx, recordPath(id.ID)); err != nil {
		m.session.fail(StateAuthenticated, err)
		return err
	}

	m.mu.Lock()
	tok := m.token
	m.mu.Unlock()

	if err := m.provider.DeleteAccount(ctx, tok); err != nil {
		mapped := mapAuthError(deleteCodes, err)
		partial := &PartialDeleteError{IdentityID: id.ID, Err: mapped}
		m.log.Error(ctx, "credential delete failed after record delete",
			"identity", id.ID, "error", mapped)
		m.session.fail(StateAuthenticated, partial)
		return partial
	}

	m.mu.Lock()
	m.token = identity.Token{}
	m.mu.Unlock()
	m.session.set(StateUnauthenticated, Identity{}, false, nil)

	m.log.Info(ctx, "account deleted", "identity", id.ID)
	m.notify(Identity{}, false)
	return nil
}

func (m *Manager) validationError(err error) error {
	m.session.fail(m.session.State(), err)
	return err
}

func validateRegistration(email, password, confirm string) error {
	if email == "" {
		return &ValidationError{Kind: ValidationMissingField, Field: "email"}
	}
	if password == "" {
		return &ValidationError{Kind: ValidationMissingField, Field: "password"}
	}
	if confirm == "" {
		return &ValidationError{Kind: ValidationMissingField, Field: "confirm password"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Kind: ValidationMalformedEmail, Field: "email"}
	}
	if password != confirm {
		return &ValidationError{Kind: ValidationPasswordMismatch}
	}
	return nil
}

// recordPath addresses the profile document for one identity.
func recordPath(identityID string) string {
	return "users/" + identityID
}
