package store

import (
	"context"
	"errors"
	"strings"

	"github.com/andrewpaige1/memora/models"
	"gorm.io/gorm"
)

// CreateUser registers a user. Emails are compared case-insensitively.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	email = normalizeEmail(email)

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrap("create user", err)
	}

	publicID, err := newPublicID()
	if err != nil {
		return nil, wrap("create user", err)
	}
	user := models.User{PublicID: publicID, Email: email, PasswordHash: passwordHash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, wrap("create user", err)
	}
	return &user, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, wrap("user by email", err)
	}
	return &user, nil
}

func (s *Store) UserByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("public_id = ?", publicID).First(&user).Error; err != nil {
		return nil, wrap("user by public id", err)
	}
	return &user, nil
}

// TouchLogin records a successful login.
func (s *Store) TouchLogin(ctx context.Context, user *models.User) error {
	now := s.now()
	if err := s.db.WithContext(ctx).Model(user).Update("last_login", now).Error; err != nil {
		return wrap("touch login", err)
	}
	user.LastLogin = &now
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
