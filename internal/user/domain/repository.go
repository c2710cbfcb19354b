package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository persists users keyed by the Clerk user id. Lookups return
// (nil, nil) when no row matches; deletes are no-ops for absent rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByClerkUserID(ctx context.Context, clerkUserID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	DeleteByClerkUserID(ctx context.Context, clerkUserID string) error
	DeleteByOrganizationID(ctx context.Context, clerkOrganizationID string) error
}
