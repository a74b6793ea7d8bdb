package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/khianvictorycalderon/profilesync/internal/logging"
)

// RESTProvider talks to an identity-toolkit-style JSON endpoint:
//
//	POST {base}/accounts:signInWithPassword
//	POST {base}/accounts:signUp
//	POST {base}/accounts:delete
//
// Successful exchanges return {"idToken": "<jwt>"}; the identity id is the
// token's subject claim. Failures return {"error": {"code": "auth/..."}} and
// surface as *Error.
type RESTProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     logging.Logger
}

func NewRESTProvider(baseURL, apiKey string, log logging.Logger) *RESTProvider {
	return &RESTProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log.With("module", "identity"),
	}
}

type credentialRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IDToken  string `json:"idToken,omitempty"`
}

type credentialResponse struct {
	IDToken string `json:"idToken"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (Token, error) {
	return p.exchange(ctx, "accounts:signInWithPassword", credentialRequest{Email: email, Password: password})
}

func (p *RESTProvider) CreateAccount(ctx context.Context, email, password string) (Token, error) {
	return p.exchange(ctx, "accounts:signUp", credentialRequest{Email: email, Password: password})
}

// SignOut is client-side for bearer tokens: the backend keeps no session.
func (p *RESTProvider) SignOut(ctx context.Context) error {
	return nil
}

func (p *RESTProvider) DeleteAccount(ctx context.Context, token Token) error {
	_, err := p.exchange(ctx, "accounts:delete", credentialRequest{IDToken: token.IDToken})
	return err
}

func (p *RESTProvider) exchange(ctx context.Context, action string, reqBody credentialRequest) (Token, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Token{}, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", p.baseURL, action, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Token{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	var body credentialResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Token{}, fmt.Errorf("%s: decode response: %w", action, err)
	}

	if resp.StatusCode != http.StatusOK {
		if body.Error != nil && body.Error.Code != "" {
			return Token{}, &Error{Code: body.Error.Code}
		}
		return Token{}, fmt.Errorf("%s: unexpected status %d", action, resp.StatusCode)
	}

	if body.IDToken == "" {
		// Mutations like accounts:delete return an empty body on success.
		return Token{}, nil
	}

	id, err := subjectOf(body.IDToken)
	if err != nil {
		return Token{}, fmt.Errorf("%s: %w", action, err)
	}
	return Token{IdentityID: id, IDToken: body.IDToken}, nil
}

// subjectOf extracts the subject claim without verifying the signature.
// Verification is the backend's job; the client only needs the principal id.
func subjectOf(idToken string) (string, error) {
	tok, _, err := jwt.NewParser().ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("parse id token: %w", err)
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("id token has no subject")
	}
	return sub, nil
}
