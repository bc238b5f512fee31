package service

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"jupiter/internal/auth"
	apperrors "jupiter/internal/errors"
)

// SessionResult is a signed session together with its projected claims.
type SessionResult struct {
	Token   string             `json:"token"`
	Expires time.Time          `json:"expires"`
	User    auth.SessionClaims `json:"user"`
}

// SessionService manages the lifecycle of signed session tokens.
type SessionService interface {
	SignIn(ctx context.Context, email, password string) (*SessionResult, error)
	Session(ctx context.Context, token string) (*SessionResult, error)
	Refresh(ctx context.Context, token string) (*SessionResult, error)
	SignOut(ctx context.Context, token string) error
}

type sessionService struct {
	authenticator Authenticator
	jwtService    *auth.JWTService
	tokenStore    auth.TokenStoreInterface
	logger        *log.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(authenticator Authenticator, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, logger *log.Logger) SessionService {
	return &sessionService{
		authenticator: authenticator,
		jwtService:    jwtService,
		tokenStore:    tokenStore,
		logger:        logger,
	}
}

// SignIn authenticates the credentials and issues a session for the resulting identity.
func (s *sessionService) SignIn(ctx context.Context, email, password string) (*SessionResult, error) {
	identity, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	result, err := s.issue(auth.Enrich(auth.Token{}, identity))
	if err != nil {
		return nil, err
	}

	s.logger.Infoj(log.JSON{
		"event":   "signed_in",
		"user_id": result.User.ID,
		"role":    result.User.Role,
	})
	return result, nil
}

// Session validates token and returns the claims it projects to.
func (s *sessionService) Session(ctx context.Context, token string) (*SessionResult, error) {
	claims, err := s.validate(ctx, token)
	if err != nil {
		return nil, err
	}

	result := &SessionResult{
		Token:   token,
		Expires: claims.ExpiresAt.Time,
		User:    auth.Project(claims.Token),
	}
	s.logger.Debugj(log.JSON{"event": "session", "claims": result.User})
	return result, nil
}

// Refresh re-signs a valid session with a new ID and expiry and revokes the old one.
func (s *sessionService) Refresh(ctx context.Context, token string) (*SessionResult, error) {
	claims, err := s.validate(ctx, token)
	if err != nil {
		return nil, err
	}

	result, err := s.issue(auth.Enrich(claims.Token, nil))
	if err != nil {
		return nil, err
	}

	if err := s.tokenStore.RevokeSession(ctx, claims.ID, s.jwtService.Remaining(claims)); err != nil {
		s.logger.Warnj(log.JSON{"event": "revoke_failed", "jti": claims.ID, "error": err.Error()})
	}
	return result, nil
}

// SignOut revokes token until its natural expiry.
func (s *sessionService) SignOut(ctx context.Context, token string) error {
	claims, err := s.validate(ctx, token)
	if err != nil {
		return err
	}

	if err := s.tokenStore.RevokeSession(ctx, claims.ID, s.jwtService.Remaining(claims)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.logger.Infoj(log.JSON{"event": "signed_out", "user_id": claims.Subject})
	return nil
}

func (s *sessionService) validate(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidSession
	}

	claims, err := s.jwtService.Parse(token)
	if err != nil {
		s.logger.Debugj(log.JSON{"event": "session_rejected", "error": err.Error()})
		return nil, apperrors.ErrInvalidSession
	}

	revoked, err := s.tokenStore.IsSessionRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrInvalidSession
	}
	return claims, nil
}

func (s *sessionService) issue(token auth.Token) (*SessionResult, error) {
	signed, claims, err := s.jwtService.Issue(token)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &SessionResult{
		Token:   signed,
		Expires: claims.ExpiresAt.Time,
		User:    auth.Project(claims.Token),
	}, nil
}
