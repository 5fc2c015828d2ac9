// Package loginsession mediates the OIDC authorization-code + PKCE
// dance. Start opens a one-time ceremony bound to a random session id;
// ResolveSubject consumes it and trades the client's authorization code
// for a verified subject.
package loginsession

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/bookrec/auth-service/cache"
	"github.com/bookrec/auth-service/internal/autherr"
)

const nonceLength = 16

// Manager creates and consumes login sessions.
type Manager struct {
	store *cache.Store
	idp   Exchanger
	ttl   time.Duration
}

// NewManager creates a login session manager. idp is the IdP client
// used for the code exchange and ID-token verification.
func NewManager(store *cache.Store, idp Exchanger, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		idp:   idp,
		ttl:   ttl,
	}
}

// Start generates a PKCE verifier/challenge pair and a nonce, stores
// the secret half in the cache under a fresh session id, and returns
// the client-facing triple. The client forwards the nonce and challenge
// to the IdP's authorization endpoint.
func (m *Manager) Start(ctx context.Context) (*LoginSession, error) {
	pkceVerifier := oauth2.GenerateVerifier()
	codeChallenge := oauth2.S256ChallengeFromVerifier(pkceVerifier)

	nonce, err := randomNonce()
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Start] nonce generation")
	}

	sessionID := uuid.New().String()

	record, err := json.Marshal(sessionRecord{
		Nonce:        nonce,
		PkceVerifier: pkceVerifier,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Start] record encoding")
	}

	if err := m.store.SetWithTTL(ctx, sessionID, string(record), m.ttl); err != nil {
		return nil, errors.Wrap(err, "[Manager.Start] cache write")
	}

	return &LoginSession{
		SessionID:     sessionID,
		Nonce:         nonce,
		CodeChallenge: codeChallenge,
	}, nil
}

// ResolveSubject consumes the login session and exchanges the
// authorization code with the IdP. The session entry is deleted by the
// same atomic read that fetches it, so a second resolution attempt for
// the same session id fails regardless of the exchange outcome.
func (m *Manager) ResolveSubject(ctx context.Context, sessionID, authorizationCode string) (string, error) {
	raw, err := m.store.FetchDel(ctx, sessionID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return "", autherr.ErrInvalidCode
		}
		return "", errors.Wrap(err, "[Manager.ResolveSubject] cache fetch")
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return "", errors.Wrap(err, "[Manager.ResolveSubject] corrupt session record")
	}

	oauthToken, err := m.idp.Exchange(ctx, authorizationCode, record.PkceVerifier)
	if err != nil {
		log.Info().Err(err).Msg("authorization code exchange rejected")
		return "", autherr.ErrInvalidCode
	}

	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		log.Info().Msg("ID token missing from token response")
		return "", autherr.ErrIDTokenMissing
	}

	claims, err := m.idp.VerifyIDToken(ctx, rawIDToken)
	if err != nil {
		log.Info().Err(err).Msg("ID token verification failed")
		return "", autherr.ErrInvalidCode
	}

	if claims.Nonce != record.Nonce {
		log.Info().Msg("ID token nonce does not match login session")
		return "", autherr.ErrInvalidCode
	}

	return claims.Subject, nil
}

func randomNonce() (string, error) {
	nonceBytes := make([]byte, nonceLength)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(nonceBytes), nil
}
