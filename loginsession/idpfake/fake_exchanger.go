package idpfake

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"

	"github.com/bookrec/auth-service/loginsession"
)

var _ loginsession.Exchanger = (*FakeExchanger)(nil)

// FakeExchanger is an in-memory stand-in for the IdP. Register an
// authorization code with RegisterCode and the fake will hand back an
// ID token embedding the given subject and nonce.
type FakeExchanger struct {
	codes       map[string]loginsession.IDTokenClaims
	omitIDToken bool
	lock        sync.Mutex
}

func NewFakeExchanger() *FakeExchanger {
	return &FakeExchanger{
		codes: make(map[string]loginsession.IDTokenClaims),
	}
}

// RegisterCode makes authorizationCode exchangeable for an ID token
// carrying subject and nonce.
func (f *FakeExchanger) RegisterCode(authorizationCode, subject, nonce string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.codes[authorizationCode] = loginsession.IDTokenClaims{
		Subject: subject,
		Nonce:   nonce,
	}
}

// OmitIDToken makes subsequent exchanges succeed without an id_token in
// the response.
func (f *FakeExchanger) OmitIDToken() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.omitIDToken = true
}

func (f *FakeExchanger) Exchange(_ context.Context, authorizationCode, pkceVerifier string) (*oauth2.Token, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if pkceVerifier == "" {
		return nil, errors.New("missing code verifier")
	}
	if _, ok := f.codes[authorizationCode]; !ok {
		return nil, errors.New("unknown authorization code")
	}

	token := &oauth2.Token{AccessToken: "idp-access-" + authorizationCode}
	if f.omitIDToken {
		return token, nil
	}
	return token.WithExtra(map[string]interface{}{"id_token": "idt-" + authorizationCode}), nil
}

func (f *FakeExchanger) VerifyIDToken(_ context.Context, rawIDToken string) (*loginsession.IDTokenClaims, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if len(rawIDToken) <= len("idt-") {
		return nil, errors.New("malformed id token")
	}
	claims, ok := f.codes[rawIDToken[len("idt-"):]]
	if !ok {
		return nil, errors.New("unknown id token")
	}
	return &claims, nil
}
