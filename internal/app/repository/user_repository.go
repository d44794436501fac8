package repository

import (
	"context"
	"errors"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrLastOwner is returned when a change would leave the store without an
// owner (or without an active owner).
var ErrLastOwner = errors.New("store must keep at least one owner")

type UserRepository interface {
	// Register creates the user as owner when no user exists yet and as
	// editor otherwise.
	Register(ctx context.Context, user *model.User) error
	Create(ctx context.Context, user *model.User) error
	FindAll(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateRole(ctx context.Context, id uint, role model.UserRole) (*model.User, error)
	UpdateStatus(ctx context.Context, id uint, status model.UserStatus) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Register(ctx context.Context, user *model.User) error {
	logger.Debug("Registering user in database", logger.Fields{"email": user.Email})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			user.Role = model.RoleOwner
		} else {
			user.Role = model.RoleEditor
		}
		return tx.Create(user).Error
	})
	if err != nil {
		logger.Error("Failed to register user in database", err, logger.Fields{"email": user.Email})
		return err
	}

	logger.Debug("User registered in database", logger.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	logger.Debug("Creating user in database", logger.Fields{"email": user.Email})

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, logger.Fields{"email": user.Email})
		return err
	}

	logger.Debug("User created in database", logger.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		logger.Error("Failed to list users", err)
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find user by ID in database", err, logger.Fields{"user_id": id})
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find user by email in database", err, logger.Fields{"email": email})
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role model.UserRole) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if user.Role == model.RoleOwner && role != model.RoleOwner {
			if err := ensureOtherOwner(tx, id, user.Status == model.StatusActive); err != nil {
				return err
			}
		}
		if err := tx.Model(&user).Update("role", role).Error; err != nil {
			return err
		}
		user.Role = role
		return nil
	})
	if err != nil {
		logUserWriteError("Failed to update user role", err, id)
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id uint, status model.UserStatus) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if user.Role == model.RoleOwner && user.Status == model.StatusActive && status != model.StatusActive {
			if err := ensureOtherOwner(tx, id, true); err != nil {
				return err
			}
		}
		if err := tx.Model(&user).Update("status", status).Error; err != nil {
			return err
		}
		user.Status = status
		return nil
	})
	if err != nil {
		logUserWriteError("Failed to update user status", err, id)
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		logger.Error("Failed to update password", res.Error, logger.Fields{"user_id": id})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if user.Role == model.RoleOwner {
			if err := ensureOtherOwner(tx, id, user.Status == model.StatusActive); err != nil {
				return err
			}
		}
		return tx.Delete(&model.User{}, id).Error
	})
	if err != nil {
		logUserWriteError("Failed to delete user", err, id)
		return err
	}
	return nil
}

// ensureOtherOwner fails with ErrLastOwner unless an owner other than id
// exists (an active one when activeOnly is set). Removing an active owner
// always needs another active owner.
func ensureOtherOwner(tx *gorm.DB, id uint, activeOnly bool) error {
	q := tx.Model(&model.User{}).Where("role = ? AND id <> ?", model.RoleOwner, id)
	if activeOnly {
		q = q.Where("status = ?", model.StatusActive)
	}
	var others int64
	if err := q.Count(&others).Error; err != nil {
		return err
	}
	if others == 0 {
		return ErrLastOwner
	}
	return nil
}

func logUserWriteError(msg string, err error, id uint) {
	if errors.Is(err, ErrLastOwner) || errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg, logger.Fields{"user_id": id, "reason": err.Error()})
		return
	}
	logger.Error(msg, err, logger.Fields{"user_id": id})
}
