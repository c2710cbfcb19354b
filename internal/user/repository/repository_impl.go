package repository

import (
	"context"
	"errors"

	"github.com/frontstep/dealanalyzer/internal/user/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) FindByClerkUserID(ctx context.Context, clerkUserID string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("clerk_user_id = ?", clerkUserID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update writes the full row, including NULLs for nil fields.
func (r *repository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *repository) DeleteByClerkUserID(ctx context.Context, clerkUserID string) error {
	return r.db.WithContext(ctx).
		Where("clerk_user_id = ?", clerkUserID).
		Delete(&domain.User{}).Error
}

func (r *repository) DeleteByOrganizationID(ctx context.Context, clerkOrganizationID string) error {
	return r.db.WithContext(ctx).
		Where("clerk_organization_id = ?", clerkOrganizationID).
		Delete(&domain.User{}).Error
}
