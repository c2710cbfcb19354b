// Package domain contains persistence models for provider-synced organizations.
package domain

import (
	"time"
)

// Organization mirrors a Clerk organization. Keyed by the provider id
// verbatim. Deleting an organization removes its member users as well;
// the cascade is an explicit two-step delete in the webhook handlers,
// not a schema annotation.
type Organization struct {
	ClerkOrganizationID string    `gorm:"column:clerk_organization_id;primaryKey" json:"clerk_organization_id"`
	Name                *string   `gorm:"type:text;not null" json:"name"`
	Slug                *string   `gorm:"type:text;uniqueIndex:ux_organizations_slug" json:"slug"`
	LogoURL             *string   `gorm:"type:text;column:logo_url" json:"logo_url"`
	CreatedAt           time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
