// Package identity defines the credential-backend boundary: a provider
// exchanging email/password credentials for identity tokens, reporting
// failures as stable backend error codes rather than prose.
package identity

import "context"

// Stable backend error codes. Matching happens on these, never on
// human-readable messages.
const (
	CodeInvalidCredential   = "auth/invalid-credential"
	CodeInvalidEmail        = "auth/invalid-email"
	CodeMissingEmail        = "auth/missing-email"
	CodeMissingPassword     = "auth/missing-password"
	CodeTooManyRequests     = "auth/too-many-requests"
	CodeEmailInUse          = "auth/email-already-in-use"
	CodeWeakPassword        = "auth/weak-password"
	CodeRequiresRecentLogin = "auth/requires-recent-login"
)

// Error is a credential-backend failure carrying its stable code.
type Error struct {
	Code string
}

func (e *Error) Error() string { return e.Code }

// Token is the result of a successful credential exchange. IdentityID is the
// backend's opaque principal id.
type Token struct {
	IdentityID string
	IDToken    string
}

// CredentialProvider is the identity backend boundary the session manager
// consumes.
type CredentialProvider interface {
	// SignIn exchanges credentials for a token.
	SignIn(ctx context.Context, email, password string) (Token, error)

	// CreateAccount registers a new credential and signs it in.
	CreateAccount(ctx context.Context, email, password string) (Token, error)

	// SignOut invalidates any provider-side session state. Providers whose
	// tokens are purely bearer-style may treat this as a no-op.
	SignOut(ctx context.Context) error

	// DeleteAccount permanently removes the credential behind token.
	DeleteAccount(ctx context.Context, token Token) error
}
