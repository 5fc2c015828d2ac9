package loginsession

import (
	"context"

	"golang.org/x/oauth2"
)

// IDTokenClaims is the subset of verified ID-token claims the login
// flow needs.
type IDTokenClaims struct {
	Subject string `json:"sub"`
	Nonce   string `json:"nonce"`
}

// Exchanger abstracts the IdP round trips so the manager can be tested
// without a network. VerifyIDToken must check signature, issuer, and
// audience; nonce comparison stays with the manager because only it
// knows the stored nonce.
type Exchanger interface {
	Exchange(ctx context.Context, authorizationCode, pkceVerifier string) (*oauth2.Token, error)
	VerifyIDToken(ctx context.Context, rawIDToken string) (*IDTokenClaims, error)
}
