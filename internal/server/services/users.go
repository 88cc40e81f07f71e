// Package services holds the server's business logic between the HTTP
// handlers and the repositories.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/models"
	"github.com/zentesthq/zentest/internal/server/auth"
	servermodels "github.com/zentesthq/zentest/internal/server/models"
	"github.com/zentesthq/zentest/internal/server/repositories/users"
)

type UserService struct {
	repo      users.Repository
	secretKey []byte
	tokenTTL  time.Duration
}

func NewUserService(repo users.Repository, secretKey []byte, tokenTTL time.Duration) *UserService {
	return &UserService{repo: repo, secretKey: secretKey, tokenTTL: tokenTTL}
}

func identityOf(u *servermodels.User) models.Identity {
	return models.Identity{UID: u.ID, DisplayName: u.DisplayName, Email: u.Login}
}

// Register creates an account and returns the identity with a fresh
// access token. Duplicate logins surface as ErrLoginAlreadyExists.
func (s *UserService) Register(ctx context.Context, login, password, displayName string) (models.Identity, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("hashing password: %w", err)
	}

	u := &servermodels.User{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: hash,
		DisplayName:  displayName,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if _, err := s.repo.Create(ctx, u); err != nil {
		return models.Identity{}, "", err
	}

	token, err := auth.GenerateToken(u.ID, s.secretKey, s.tokenTTL)
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("generating token: %w", err)
	}
	return identityOf(u), token, nil
}

// Login verifies credentials. A missing user and a wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, login, password string) (models.Identity, string, error) {
	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Identity{}, "", common.ErrInvalidCredentials
		}
		return models.Identity{}, "", err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return models.Identity{}, "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(u.ID, s.secretKey, s.tokenTTL)
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("generating token: %w", err)
	}
	return identityOf(u), token, nil
}

// IdentityByID resolves a token subject back to a public identity.
func (s *UserService) IdentityByID(ctx context.Context, id string) (models.Identity, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Identity{}, err
	}
	return identityOf(u), nil
}
