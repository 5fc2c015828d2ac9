package loginsession

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/bookrec/auth-service/internal/config"
)

// OIDCExchanger is the production Exchanger, built from the IdP's
// discovery document.
type OIDCExchanger struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

var _ Exchanger = (*OIDCExchanger)(nil)

// NewOIDCExchanger discovers the IdP's endpoints and constructs the
// OAuth2 and verifier clients. Discovery happens once, at startup.
func NewOIDCExchanger(ctx context.Context, cfg config.ProviderConfig) (*OIDCExchanger, error) {
	provider, err := oidc.NewProvider(ctx, cfg.GetProviderURL())
	if err != nil {
		return nil, errors.Wrap(err, "[NewOIDCExchanger] provider discovery")
	}

	return &OIDCExchanger{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GetProviderClientID(),
			ClientSecret: cfg.GetProviderClientSecret(),
			RedirectURL:  cfg.GetProviderRedirectURL(),
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.GetProviderClientID()}),
	}, nil
}

// Exchange trades the authorization code plus PKCE verifier for the
// IdP's token response.
func (e *OIDCExchanger) Exchange(ctx context.Context, authorizationCode, pkceVerifier string) (*oauth2.Token, error) {
	return e.oauthConfig.Exchange(ctx, authorizationCode, oauth2.VerifierOption(pkceVerifier))
}

// VerifyIDToken checks the ID token's signature, issuer, audience, and
// expiry against the discovered provider metadata and returns its
// claims.
func (e *OIDCExchanger) VerifyIDToken(ctx context.Context, rawIDToken string) (*IDTokenClaims, error) {
	idToken, err := e.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrap(err, "[OIDCExchanger.VerifyIDToken] verify")
	}

	var claims IDTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.Wrap(err, "[OIDCExchanger.VerifyIDToken] claims decoding")
	}
	return &claims, nil
}
