package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/common"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/auth"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/config"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/sessions"
)

type Service struct {
	repo                        Repository
	sessionRepo                 sessions.Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	maxUsers                    int
}

func NewService(repo Repository, sessionRepo sessions.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		sessionRepo:                 sessionRepo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		maxUsers:                    cfg.MaxUsers,
	}
}

// Register creates a new user. An empty password is replaced by a generated
// strong one. Non-admin registrations are capped at the configured maximum.
// Returns the user together with a fresh access token.
func (s *Service) Register(ctx context.Context, username, email, password string, isAdmin bool) (*models.User, string, error) {

	if username == "" || email == "" {
		return nil, "", common.ErrorValidation
	}

	if !isAdmin {
		count, err := s.repo.CountNonAdmin(ctx)
		if err != nil {
			return nil, "", common.ErrorInternal
		}
		if count >= s.maxUsers {
			return nil, "", common.ErrorUserLimit
		}
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, "", common.ErrorInternal
	}
	if exists {
		return nil, "", common.ErrorAlreadyExists
	}

	if password == "" {
		password, err = common.GenerateStrongPassword()
		if err != nil {
			return nil, "", common.ErrorInternal
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("error creating user: %v", err)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Login verifies the email/password pair and returns the user together with
// a fresh access token. The token is also recorded as a session row.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	err = s.sessionRepo.Create(ctx, user.ID, token, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// GetByID loads a user by ID; used by the auth middleware to confirm the
// token's subject still exists.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// PromoteAdmin grants admin rights to the target user.
func (s *Service) PromoteAdmin(ctx context.Context, targetID string) (*models.User, error) {
	user, err := s.repo.SetAdmin(ctx, targetID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *Service) generateAccessToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
}
