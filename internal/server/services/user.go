// Package services contains server-side business logic. This file implements
// UserService: password login that yields a signed access token, plus
// read-only access to the user directory.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/cryptox"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/users"
)

// PasswordVerifier checks a candidate password against a stored hash.
type PasswordVerifier interface {
	Hash(plaintext string) (string, error)
	Verify(stored, candidate string) cryptox.Verification
}

// TokenIssuer signs access tokens for verified users.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// AuthenticateResponse is returned on a successful login.
type AuthenticateResponse struct {
	models.Profile
	Token string `json:"token"`
}

// UserService authenticates users and exposes the directory to callers
// without ever returning password hashes.
type UserService struct {
	users     users.Repository
	hasher    PasswordVerifier
	issuer    TokenIssuer
	logger    logging.Logger
	dummyHash string
}

// NewUserService wires the service. It hashes a random throwaway password so
// that logins for unknown users cost the same work as real ones.
func NewUserService(repo users.Repository, hasher PasswordVerifier, issuer TokenIssuer, logger logging.Logger) (*UserService, error) {
	throwaway, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("error generating dummy password: %w", err)
	}
	dummy, err := hasher.Hash(throwaway)
	if err != nil {
		return nil, fmt.Errorf("error hashing dummy password: %w", err)
	}

	return &UserService{
		users:     repo,
		hasher:    hasher,
		issuer:    issuer,
		logger:    logger.With("module", "user_service"),
		dummyHash: dummy,
	}, nil
}

// Authenticate verifies username and password and returns a signed token.
// Unknown user and wrong password both yield common.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*AuthenticateResponse, error) {
	user, err := s.users.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(s.dummyHash, password)
			s.logger.Debug(ctx, "login rejected", "reason", "unknown user")
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	v := s.hasher.Verify(user.PasswordHash, password)
	if v.Malformed {
		s.logger.Error(ctx, "stored password hash is malformed", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}
	if !v.Verified {
		s.logger.Debug(ctx, "login rejected", "reason", "password mismatch", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}
	if v.NeedsUpgrade {
		s.logger.Warn(ctx, "password hash uses an outdated work factor", "user_id", user.ID)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user authenticated", "user_id", user.ID, "role", string(user.Role))

	return &AuthenticateResponse{Profile: user.Profile(), Token: token}, nil
}

// GetAll lists every user in the directory.
func (s *UserService) GetAll(ctx context.Context) ([]models.Profile, error) {
	list, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "user list failed", "error", err)
		return nil, common.ErrorInternal
	}

	profiles := make([]models.Profile, 0, len(list))
	for i := range list {
		profiles = append(profiles, list[i].Profile())
	}
	return profiles, nil
}

// GetByID returns a single user or common.ErrUserNotFound.
func (s *UserService) GetByID(ctx context.Context, id int) (models.Profile, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Profile{}, common.ErrUserNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "user_id", id, "error", err)
		return models.Profile{}, common.ErrorInternal
	}
	return user.Profile(), nil
}
