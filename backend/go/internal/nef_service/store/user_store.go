package store

import (
	"context"

	"NEF_Emulator/backend/go/internal/models"
)

// --- User Management ---

// CreateUser 在数据库中创建一个新用户。
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.db(ctx).Create(user).Error
}

// GetUserByEmail 通过邮箱地址查找用户。
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID 通过 ID 查找用户。
func (s *Store) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers 分页列出所有用户。
func (s *Store) ListUsers(ctx context.Context, page Page) ([]models.User, error) {
	var users []models.User
	if err := paginate(s.db(ctx), page).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser 更新用户信息。
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	return s.db(ctx).Save(user).Error
}
