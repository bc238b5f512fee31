package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"jupiter/internal/auth"
	apperrors "jupiter/internal/errors"
	"jupiter/internal/repository"
)

// Authenticator verifies email/password credentials against the user store.
type Authenticator interface {
	// Authenticate returns the identity of the matching user. Every failure is an
	// *apperrors.AuthError whose message is the generic public one.
	Authenticate(ctx context.Context, email, password string) (*auth.Identity, error)
}

type authenticator struct {
	users     repository.UserRepository
	verifier  auth.PasswordVerifier
	dummyHash string
	logger    *log.Logger
}

// NewAuthenticator creates a new credential authenticator. dummyHash is verified against when
// no user matches and should be hashed at the same cost as stored passwords (see auth.NewDummyHash).
func NewAuthenticator(users repository.UserRepository, verifier auth.PasswordVerifier, dummyHash string, logger *log.Logger) Authenticator {
	return &authenticator{
		users:     users,
		verifier:  verifier,
		dummyHash: dummyHash,
		logger:    logger,
	}
}

func (a *authenticator) Authenticate(ctx context.Context, email, password string) (*auth.Identity, error) {
	identity, err := a.authenticate(ctx, email, password)
	if err != nil {
		entry := log.JSON{
			"event": "authentication_failed",
			"kind":  apperrors.KindOf(err).String(),
			"email": maskEmail(email),
		}
		if cause := errors.Unwrap(err); cause != nil {
			entry["error"] = cause.Error()
		}
		a.logger.Warnj(entry)
		return nil, err
	}
	return identity, nil
}

func (a *authenticator) authenticate(ctx context.Context, email, password string) (*auth.Identity, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewAuthError(apperrors.KindMissingCredentials, nil)
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// burn the same verification cost a real user would
			_, _ = a.verifier.Verify(password, a.dummyHash)
			return nil, apperrors.NewAuthError(apperrors.KindUserNotFound, err)
		}
		return nil, apperrors.NewAuthError(apperrors.KindAuthenticationFailed, fmt.Errorf("find user: %w", err))
	}

	ok, err := a.verifier.Verify(password, user.Password)
	if err != nil {
		return nil, apperrors.NewAuthError(apperrors.KindAuthenticationFailed, fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return nil, apperrors.NewAuthError(apperrors.KindInvalidPassword, nil)
	}

	return auth.NewIdentity(user), nil
}

// maskEmail keeps the first character of the local part and the domain: "ada@uni.edu" -> "a***@uni.edu".
func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		if email == "" {
			return ""
		}
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
