package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/bookrec/auth-service/auth"
	"github.com/bookrec/auth-service/internal/autherr"
	"github.com/bookrec/auth-service/token/refresh"
	"github.com/bookrec/auth-service/users"
)

type loginRequest struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
}

type signUpRequest struct {
	SignUpCode string `json:"sign_up_code"`
	Username   string `json:"username"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type meResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// PreflightHandler terminates CORS preflight requests. CorsMiddleware
// has already written the headers and status by the time it runs.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {}
}

// MakeLoginSessionHandler opens a login ceremony and returns the triple
// the front end forwards to the identity provider.
func (s *Server) MakeLoginSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.auth.MakeLoginSession(r.Context())
		if err != nil {
			s.writeFlowError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

// LoginHandler finishes the identity provider dance and hands out the
// first token pair, or a sign-up code for unknown subjects.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		pair, err := s.auth.Login(r.Context(), req.SessionID, req.Code)
		if err != nil {
			s.writeFlowError(w, r, err)
			return
		}
		s.writeTokenPair(w, pair)
	}
}

// SignUpHandler trades a sign-up code for a new account.
func (s *Server) SignUpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		pair, err := s.auth.SignUp(r.Context(), req.SignUpCode, users.UserForCreation{Username: req.Username})
		if err != nil {
			s.writeFlowError(w, r, err)
			return
		}
		s.writeTokenPair(w, pair)
	}
}

// RefreshHandler rotates the refresh token presented in the cookie.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.config.GetRefreshTokenCookieName())
		if err != nil {
			s.writeFlowError(w, r, autherr.ErrInvalidRefreshToken)
			return
		}

		pair, err := s.auth.RefreshTokens(r.Context(), cookie.Value)
		if err != nil {
			s.writeFlowError(w, r, err)
			return
		}
		s.writeTokenPair(w, pair)
	}
}

// MeHandler returns the authenticated user's profile. It sits behind
// RequireBearerAuth.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			s.writeUnauthorized(w)
			return
		}

		user, err := s.auth.GetUser(r.Context(), userID)
		if errors.Is(err, autherr.ErrUserNotFound) {
			s.writeUnauthorized(w)
			return
		}
		if err != nil {
			s.writeFlowError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, meResponse{
			ID:       user.ID,
			Username: user.Username,
		})
	}
}

// writeTokenPair sets the rotated refresh cookie and returns the access
// token in the body.
func (s *Server) writeTokenPair(w http.ResponseWriter, pair *auth.TokenPair) {
	s.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken})
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token *refresh.RefreshToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetRefreshTokenCookieName(),
		Value:    token.Token,
		Path:     s.config.GetRefreshTokenCookiePath(),
		Expires:  token.ExpiresAt,
		HttpOnly: true,
	})
}

// writeFlowError is the single place flow errors become HTTP statuses.
func (s *Server) writeFlowError(w http.ResponseWriter, r *http.Request, err error) {
	var nonexistent *autherr.NonexistentUserError

	switch {
	case errors.As(err, &nonexistent):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: nonexistent.SignUpCode})
	case errors.Is(err, autherr.ErrInvalidCode), errors.Is(err, autherr.ErrIDTokenMissing):
		writeJSON(w, http.StatusForbidden, errorResponse{})
	case errors.Is(err, autherr.ErrInvalidRefreshToken):
		writeJSON(w, http.StatusForbidden, errorResponse{})
	case errors.Is(err, autherr.ErrDuplicatedUser):
		writeJSON(w, http.StatusBadRequest, errorResponse{})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}
