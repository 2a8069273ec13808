package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/signalpanel/auth-service/internal/auth/hasher"
	"github.com/signalpanel/auth-service/internal/auth/service"
	"github.com/signalpanel/auth-service/internal/models"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method GetByAccount retrieves a user by account.
	//
	// "account" parameter is used to retrieve a user by account.
	//
	// If user with such account does not exist, models.ErrUserNotFound will be returned together with "nil" value.
	GetByAccount(ctx context.Context, account string) (*models.User, error)
	// Method SaveToken overwrites the user's stored token and persists it.
	//
	// "user" parameter identifies the user record to update.
	// "token" parameter is the newly issued access token.
	//
	// If some error occurs during the update, the error will be returned.
	SaveToken(ctx context.Context, user *models.User, token string) error
	// Method Exists checks if a user with such account exists.
	//
	// "account" parameter is used to check if a user with such account exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	Exists(ctx context.Context, account string) (bool, error)
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
}

// userService implements the user use-case layer
type userService struct {
	userRepo       UserRepository
	passwordHasher *hasher.PasswordHasher
	tokenGenerator *service.TokenGenerator
	logger         *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo UserRepository,
	passwordHasher *hasher.PasswordHasher,
	tokenGenerator *service.TokenGenerator,
	logger *zap.Logger,
) *userService {
	return &userService{
		userRepo:       userRepo,
		passwordHasher: passwordHasher,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// Login authenticates a user and returns a signed access token.
//
// An unknown account and a wrong password produce the same
// models.ErrWrongCredentials, so the endpoint cannot be used to probe
// which accounts exist.
func (s *userService) Login(ctx context.Context, account, password string) (string, error) {
	user, err := s.userRepo.GetByAccount(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", models.ErrWrongCredentials
		}
		return "", err
	}

	valid, err := s.passwordHasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash unusable", zap.Error(err), zap.String("account", account))
		return "", err
	}
	if !valid {
		return "", models.ErrWrongCredentials
	}

	token, err := s.tokenGenerator.GenerateToken(user.Account, user.Role)
	if err != nil {
		return "", err
	}

	// Authentication already succeeded at this point; a failed write still
	// fails the login, surfaced as a server error. There is no retry.
	if err := s.userRepo.SaveToken(ctx, user, token); err != nil {
		s.logger.Error("failed to persist issued token", zap.Error(err), zap.String("account", account))
		return "", fmt.Errorf("%w: persist issued token: %v", models.ErrPersistence, err)
	}

	return token, nil
}

// GetInfo retrieves the public projection of a user
func (s *userService) GetInfo(ctx context.Context, account string) (*models.UserInfo, error) {
	user, err := s.userRepo.GetByAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	return models.NewUserInfo(user), nil
}

// CreateUser creates a new user on behalf of an administrator.
//
// The permission gate runs before any store access, and the duplicate
// check runs before any write.
func (s *userService) CreateUser(ctx context.Context, requesterRole models.Role, req *models.CreateUserRequest) (*models.UserInfo, error) {
	if requesterRole < models.RoleAdmin {
		return nil, models.ErrPermissionDenied
	}

	exists, err := s.IsExist(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicateAccount
	}

	passwordHash, err := s.passwordHasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Account:      req.Account,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         req.Role,
		State:        models.StateEnabled,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return models.NewUserInfo(user), nil
}

// IsExist checks whether an account is already registered. Store errors
// propagate to the caller instead of collapsing to false.
func (s *userService) IsExist(ctx context.Context, account string) (bool, error) {
	return s.userRepo.Exists(ctx, account)
}
