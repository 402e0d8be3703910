package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/hunt-assistant/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when a unique column already holds the value.
var ErrDuplicate = errors.New("duplicate record")

type UserStore struct {
	DB *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{DB: db}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return ErrDuplicate
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email = ?", normalizeEmail(email))
}

// FindOrCreateByGoogle links a Google account to a user. An existing account
// with the same email is linked instead of duplicated.
func (s *UserStore) FindOrCreateByGoogle(ctx context.Context, subject, email, name string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("google_subject = ?", subject).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Where(models.User{Email: normalizeEmail(email)}).
			Attrs(models.User{Name: name}).
			FirstOrCreate(&user).Error
		if err != nil {
			return err
		}
		return tx.Model(&user).Update("google_subject", subject).Error
	})
	if err != nil {
		return nil, fmt.Errorf("google user %s: %w", email, err)
	}
	user.GoogleSubject = &subject
	return &user, nil
}

func (s *UserStore) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
