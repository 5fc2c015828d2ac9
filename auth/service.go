// Package auth orchestrates the user-facing authentication flows. It
// owns no state of its own; every flow composes the login session,
// sign-up code, refresh token, and access token managers with the
// relational user store.
package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bookrec/auth-service/internal/autherr"
	"github.com/bookrec/auth-service/loginsession"
	"github.com/bookrec/auth-service/signup"
	"github.com/bookrec/auth-service/token"
	"github.com/bookrec/auth-service/token/refresh"
	"github.com/bookrec/auth-service/users"
)

// TokenPair is the credential set handed out on every successful flow:
// a fresh refresh token plus a short-lived access token.
type TokenPair struct {
	RefreshToken *refresh.RefreshToken
	AccessToken  string
}

// Managers holds the token and session manager dependencies for the
// Service.
type Managers struct {
	LoginSessions *loginsession.Manager
	SignUpCodes   *signup.Manager
	RefreshTokens *refresh.Manager
	AccessTokens  *token.Manager
}

// Service drives the login, sign-up, and refresh state machines.
type Service struct {
	managers Managers
	userRepo users.Repo
}

// NewService initializes a Service with required dependencies.
func NewService(managers Managers, userRepo users.Repo) (*Service, error) {
	if managers.LoginSessions == nil {
		return nil, errors.New("[NewService] login session manager is required")
	}
	if managers.SignUpCodes == nil {
		return nil, errors.New("[NewService] sign-up code manager is required")
	}
	if managers.RefreshTokens == nil {
		return nil, errors.New("[NewService] refresh token manager is required")
	}
	if managers.AccessTokens == nil {
		return nil, errors.New("[NewService] access token manager is required")
	}
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}

	return &Service{
		managers: managers,
		userRepo: userRepo,
	}, nil
}

// MakeLoginSession opens a fresh login ceremony and returns the triple
// the client forwards to the identity provider.
func (s *Service) MakeLoginSession(ctx context.Context) (*loginsession.LoginSession, error) {
	session, err := s.managers.LoginSessions.Start(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.MakeLoginSession] Start")
	}
	return session, nil
}

// Login finishes the identity provider dance. If the authenticated
// subject already has an account it gets a token pair; if not, a
// one-time sign-up code is issued and returned inside
// autherr.NonexistentUserError so the client can complete registration
// without repeating the exchange.
func (s *Service) Login(ctx context.Context, sessionID, authorizationCode string) (*TokenPair, error) {
	subject, err := s.managers.LoginSessions.ResolveSubject(ctx, sessionID, authorizationCode)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetBySubject(ctx, subject)
	if errors.Is(err, autherr.ErrUserNotFound) {
		signUpCode, issueErr := s.managers.SignUpCodes.Issue(ctx, subject)
		if issueErr != nil {
			return nil, errors.Wrap(issueErr, "[Service.Login] sign-up code issue")
		}
		return nil, &autherr.NonexistentUserError{SignUpCode: signUpCode}
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] GetBySubject")
	}

	return s.issueTokens(ctx, user.ID)
}

// SignUp trades a sign-up code for a new account and its first token
// pair.
func (s *Service) SignUp(ctx context.Context, signUpCode string, user users.UserForCreation) (*TokenPair, error) {
	subject, err := s.managers.SignUpCodes.Verify(ctx, signUpCode)
	if err != nil {
		return nil, err
	}

	userID, err := s.userRepo.Create(ctx, subject, user)
	if err != nil {
		if errors.Is(err, autherr.ErrDuplicatedUser) {
			return nil, autherr.ErrDuplicatedUser
		}
		return nil, errors.Wrap(err, "[Service.SignUp] Create")
	}

	return s.issueTokens(ctx, userID)
}

// RefreshTokens consumes the presented refresh token and mints a
// replacement pair. The presented token is dead after this call whether
// or not minting succeeds.
func (s *Service) RefreshTokens(ctx context.Context, presentedToken string) (*TokenPair, error) {
	userID, err := s.managers.RefreshTokens.VerifyAndRotate(ctx, presentedToken)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, userID)
}

// GetUser loads the profile behind a verified user id.
func (s *Service) GetUser(ctx context.Context, userID int64) (*users.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, autherr.ErrUserNotFound) {
			return nil, autherr.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "[Service.GetUser] GetByID")
	}
	return user, nil
}

// VerifyAccess validates a bearer token and confirms the account behind
// it still exists.
func (s *Service) VerifyAccess(ctx context.Context, rawToken string) (int64, error) {
	userID, err := s.managers.AccessTokens.Verify(rawToken)
	if err != nil {
		return 0, err
	}

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "[Service.VerifyAccess] Exists")
	}
	if !exists {
		return 0, autherr.ErrInvalidAccessToken
	}
	return userID, nil
}

func (s *Service) issueTokens(ctx context.Context, userID int64) (*TokenPair, error) {
	refreshToken, err := s.managers.RefreshTokens.Issue(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.issueTokens] refresh issue")
	}

	accessToken, err := s.managers.AccessTokens.Mint(userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.issueTokens] access mint")
	}

	return &TokenPair{
		RefreshToken: refreshToken,
		AccessToken:  accessToken,
	}, nil
}
