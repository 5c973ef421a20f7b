// Package services contains the application services sitting between the
// transport layer and the repositories.
package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/roomchat/internal/common"
	"github.com/dmitrijs2005/roomchat/internal/server/auth"
	"github.com/dmitrijs2005/roomchat/internal/server/config"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
	"github.com/dmitrijs2005/roomchat/internal/server/repositories/users"
)

type UserService struct {
	repo                        users.Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

func (s *UserService) Signup(ctx context.Context, username, email, password, role string) (*models.User, error) {

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	if role == "" {
		role = models.RoleUser
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		UserName:       username,
		Email:          email,
		HashedPassword: hash,
		Role:           role,
		IsActive:       true,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Login checks the credentials and issues a signed access token carrying
// the user's identity (username, user id, role).
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !auth.CheckPassword(user.HashedPassword, password) {
		return "", common.ErrorUnauthorized
	}

	identity := auth.Identity{
		UserID:   strconv.FormatInt(user.ID, 10),
		Username: user.UserName,
		Role:     user.Role,
	}

	token, err := auth.GenerateToken(identity, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

func (s *UserService) Profile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}
