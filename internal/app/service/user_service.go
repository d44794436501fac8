package service

import (
	"context"
	"errors"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/pkg/logger"
	"github.com/donde/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrLastOwner        = errors.New("store must keep at least one active owner")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrCannotDeleteSelf = errors.New("users cannot delete themselves")
)

type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	CreateUser(ctx context.Context, email, password string, role model.UserRole) (*model.User, error)
	UpdateRole(ctx context.Context, id uint, role model.UserRole) (*model.User, error)
	UpdateStatus(ctx context.Context, id uint, status model.UserStatus) (*model.User, error)
	// DeleteUser removes id on behalf of actorID.
	DeleteUser(ctx context.Context, actorID, id uint) error
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserError(err)
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, email, password string, role model.UserRole) (*model.User, error) {
	email = normalizeEmail(email)
	if role == "" {
		role = model.RoleEditor
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := util.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, logger.Fields{"email": email})
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       model.StatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			logger.Warn("User creation failed: email already exists", logger.Fields{"email": email})
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	logger.Info("User created", logger.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, id uint, role model.UserRole) (*model.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, mapUserError(err)
	}

	logger.Info("User role updated", logger.Fields{
		"user_id": id,
		"role":    role,
	})
	return user, nil
}

func (s *userService) UpdateStatus(ctx context.Context, id uint, status model.UserStatus) (*model.User, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	user, err := s.userRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, mapUserError(err)
	}

	logger.Info("User status updated", logger.Fields{
		"user_id": id,
		"status":  status,
	})
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return mapUserError(err)
	}

	logger.Info("User deleted", logger.Fields{
		"user_id":  id,
		"actor_id": actorID,
	})
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return mapUserError(err)
	}
	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change rejected: wrong current password", logger.Fields{"user_id": userID})
		return ErrWrongPassword
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash password", err, logger.Fields{"user_id": userID})
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return mapUserError(err)
	}

	logger.Info("Password changed", logger.Fields{"user_id": userID})
	return nil
}

func mapUserError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrLastOwner):
		return ErrLastOwner
	}
	return err
}
