package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// UserStore implements store.UserStore using gorm.
type UserStore struct {
	db *gorm.DB
}

// Ensure UserStore implements the interface.
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a new UserStore.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create saves a new user. The duplicate email check is proactive rather
// than relying on the unique-constraint error, so callers get a stable
// sentinel regardless of driver.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return store.ErrEmailExists
	}

	if err := db.Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (s *UserStore) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// Update persists changes to an existing user.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	db := s.db.WithContext(ctx)

	var count int64
	err := db.Model(&domain.User{}).
		Where("email = ? AND id <> ?", user.Email, user.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return store.ErrEmailExists
	}

	res := db.Model(&domain.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":            user.Name,
			"email":           user.Email,
			"hashed_password": user.HashedPassword,
		})
	if res.Error != nil {
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// Delete removes a user and, via the association constraint, its tasks.
func (s *UserStore) Delete(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)

	// SQLite does not always enforce the FK cascade, so owned tasks are
	// removed explicitly first.
	if err := db.Where("user_id = ?", id).Delete(&domain.Task{}).Error; err != nil {
		return fmt.Errorf("delete user tasks: %w", err)
	}

	res := db.Delete(&domain.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}
