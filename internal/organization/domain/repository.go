package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository persists organizations keyed by the Clerk organization id.
// Lookups return (nil, nil) when no row matches; deletes are no-ops for
// absent rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByClerkOrganizationID(ctx context.Context, clerkOrganizationID string) (*Organization, error)
	FindBySlug(ctx context.Context, slug string) (*Organization, error)
	Create(ctx context.Context, org *Organization) error
	Update(ctx context.Context, org *Organization) error
	DeleteByClerkOrganizationID(ctx context.Context, clerkOrganizationID string) error
}
