// Package domain contains persistence models for provider-synced users.
package domain

import (
	"time"
)

// User mirrors a Clerk user. The primary key is the provider-issued id
// verbatim; no local id generation, so redelivered events upsert by the
// same key.
type User struct {
	ClerkUserID     string  `gorm:"column:clerk_user_id;primaryKey" json:"clerk_user_id"`
	Email           *string `gorm:"type:text;index:ix_users_email" json:"email"`
	FirstName       *string `gorm:"type:text" json:"first_name"`
	LastName        *string `gorm:"type:text" json:"last_name"`
	ProfileImageURL *string `gorm:"type:text;column:profile_image_url" json:"profile_image_url"`

	// Microsoft OAuth sidecar, handed to us via Clerk public metadata.
	MicrosoftAccessToken  *string    `gorm:"type:text;column:microsoft_access_token" json:"-"`
	MicrosoftRefreshToken *string    `gorm:"type:text;column:microsoft_refresh_token" json:"-"`
	MicrosoftTokenExpiry  *time.Time `gorm:"column:microsoft_token_expiry" json:"microsoft_token_expiry"`

	// At most one organization per user; nil means no membership.
	ClerkOrganizationID *string `gorm:"column:clerk_organization_id;index:ix_users_clerk_organization_id" json:"clerk_organization_id"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
