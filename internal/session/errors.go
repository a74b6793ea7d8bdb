package session

import (
	"errors"
	"fmt"

	"github.com/khianvictorycalderon/profilesync/internal/identity"
)

// AuthKind classifies credential-backend failures.
type AuthKind int

const (
	AuthInvalidCredentials AuthKind = iota
	AuthTooManyAttempts
	AuthEmailInUse
	AuthInvalidEmail
	AuthWeakPassword
	AuthRequiresRecentAuth
	AuthOther
)

func (k AuthKind) String() string {
	switch k {
	case AuthInvalidCredentials:
		return "invalid credentials"
	case AuthTooManyAttempts:
		return "too many attempts"
	case AuthEmailInUse:
		return "email in use"
	case AuthInvalidEmail:
		return "invalid email"
	case AuthWeakPassword:
		return "weak password"
	case AuthRequiresRecentAuth:
		return "requires recent auth"
	default:
		return "other"
	}
}

// AuthError is a classified credential failure. Code carries the backend's
// stable code for unmatched kinds; it is never user prose.
type AuthError struct {
	Kind AuthKind
	Code string
}

func (e *AuthError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth error: %s (%s)", e.Kind, e.Code)
	}
	return fmt.Sprintf("auth error: %s", e.Kind)
}

// ValidationKind classifies local, pre-network input failures.
type ValidationKind int

const (
	ValidationMalformedEmail ValidationKind = iota
	ValidationPasswordMismatch
	ValidationMissingField
)

func (k ValidationKind) String() string {
	switch k {
	case ValidationMalformedEmail:
		return "malformed email"
	case ValidationPasswordMismatch:
		return "password mismatch"
	default:
		return "missing field"
	}
}

// ValidationError is reported locally before any network call is made.
type ValidationError struct {
	Kind  ValidationKind
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("validation error: %s", e.Kind)
}

// PartialDeleteError reports the non-atomic account deletion gap: the profile
// record was removed but the credential deletion failed, leaving an identity
// without a record. IdentityID gives operators enough to reconcile manually.
type PartialDeleteError struct {
	IdentityID string
	Err        error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("partial delete for identity %s: %v", e.IdentityID, e.Err)
}

func (e *PartialDeleteError) Unwrap() error { return e.Err }

// ErrNotAuthenticated is returned by operations that require a signed-in
// identity.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrProfileIncomplete marks a registration whose credential was created but
// whose initial profile write failed. The session stays authenticated;
// CompleteRegistration retries the write. Match with errors.Is.
var ErrProfileIncomplete = errors.New("profile record write pending")

// profileIncompleteError pairs ErrProfileIncomplete with the underlying
// write failure so both are reachable through errors.Is / errors.As.
type profileIncompleteError struct {
	err error
}

func (e *profileIncompleteError) Error() string {
	return "profile record write pending: " + e.err.Error()
}

func (e *profileIncompleteError) Is(target error) bool { return target == ErrProfileIncomplete }

func (e *profileIncompleteError) Unwrap() error { return e.err }

// Code lookup tables per operation. Sign-in deliberately folds email-shaped
// codes into invalid-credentials so the caller cannot probe which part was
// wrong; registration keeps them distinct for form feedback.
var (
	signInCodes = map[string]AuthKind{
		identity.CodeInvalidCredential: AuthInvalidCredentials,
		identity.CodeInvalidEmail:      AuthInvalidCredentials,
		identity.CodeMissingEmail:      AuthInvalidCredentials,
		identity.CodeMissingPassword:   AuthInvalidCredentials,
		identity.CodeTooManyRequests:   AuthTooManyAttempts,
	}

	registerCodes = map[string]AuthKind{
		identity.CodeEmailInUse:   AuthEmailInUse,
		identity.CodeInvalidEmail: AuthInvalidEmail,
		identity.CodeWeakPassword: AuthWeakPassword,
	}

	deleteCodes = map[string]AuthKind{
		identity.CodeRequiresRecentLogin: AuthRequiresRecentAuth,
	}
)

// mapAuthError classifies a provider failure through the given table.
// Unmatched codes become AuthOther carrying the code itself.
func mapAuthError(table map[string]AuthKind, err error) error {
	var ie *identity.Error
	if !errors.As(err, &ie) {
		return fmt.Errorf("credential backend: %w", err)
	}
	if kind, ok := table[ie.Code]; ok {
		return &AuthError{Kind: kind, Code: ie.Code}
	}
	return &AuthError{Kind: AuthOther, Code: ie.Code}
}
