package service

import (
	"context"
	"fmt"
	"time"

	clerkdomain "github.com/frontstep/dealanalyzer/internal/clerk/domain"
	orgdomain "github.com/frontstep/dealanalyzer/internal/organization/domain"
	userdomain "github.com/frontstep/dealanalyzer/internal/user/domain"
	"github.com/frontstep/dealanalyzer/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Users userdomain.Repository
	Orgs  orgdomain.Repository
}

// Service reconciles Clerk webhook events against the local user and
// organization tables. Each event runs in one transaction; either every
// write for the event commits or none do. There is no per-entity-id
// locking: interleaving of related events for the same id is left to the
// provider's ordering and redelivery.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	users userdomain.Repository
	orgs  orgdomain.Repository
}

func NewService(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("clerk.service"),
		users: p.Users,
		orgs:  p.Orgs,
	}
}

// Process dispatches the event to its reconciliation handler. Unrecognized
// types return clerkdomain.ErrEventIgnored, which callers acknowledge with
// a success response.
func (s *Service) Process(ctx context.Context, event *clerkdomain.Event) error {
	s.log.Info("processing event", zap.String("type", event.Type))

	switch event.Type {
	case clerkdomain.EventUserCreated:
		return s.handleUserCreated(ctx, event.Data)
	case clerkdomain.EventUserUpdated:
		return s.handleUserUpdated(ctx, event.Data)
	case clerkdomain.EventUserDeleted:
		return s.handleUserDeleted(ctx, event.Data)
	case clerkdomain.EventOrgCreated:
		return s.handleOrganizationCreated(ctx, event.Data)
	case clerkdomain.EventOrgUpdated:
		return s.handleOrganizationUpdated(ctx, event.Data)
	case clerkdomain.EventOrgDeleted:
		return s.handleOrganizationDeleted(ctx, event.Data)
	case clerkdomain.EventOrgMembershipCreate:
		return s.handleMembershipCreated(ctx, event.Data)
	case clerkdomain.EventOrgMembershipDelete:
		return s.handleMembershipDeleted(ctx, event.Data)
	default:
		s.log.Warn("unhandled event type", zap.String("type", event.Type))
		return clerkdomain.ErrEventIgnored
	}
}

func (s *Service) handleUserCreated(ctx context.Context, data clerkdomain.EventData) error {
	id, err := requireID(data)
	if err != nil {
		return err
	}

	user := userdomain.User{
		ClerkUserID:     id,
		Email:           firstEmail(data),
		FirstName:       data.String("first_name"),
		LastName:        data.String("last_name"),
		ProfileImageURL: data.String("image_url"),
	}

	if oauth := data.Object("public_metadata").Object("oauth_microsoft"); oauth != nil {
		user.MicrosoftAccessToken = oauth.String("access_token")
		user.MicrosoftRefreshToken = oauth.String("refresh_token")
		user.MicrosoftTokenExpiry = tokenExpiry(oauth)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.users.WithTx(tx).Create(ctx, &user)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Redelivered create; insert-only semantics are intentional.
			s.log.Warn("user already exists", zap.String("clerk_user_id", id))
		}
		return err
	}

	s.log.Info("user created", zap.String("clerk_user_id", id))
	return nil
}

func (s *Service) handleUserUpdated(ctx context.Context, data clerkdomain.EventData) error {
	id, err := requireID(data)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		user, err := users.FindByClerkUserID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: %s", clerkdomain.ErrUserNotFound, id)
		}

		// Email is only replaced when the event carries addresses;
		// the other profile fields are overwritten wholesale.
		if emails := data.Objects("email_addresses"); len(emails) > 0 {
			user.Email = emails[0].String("email_address")
		}
		user.FirstName = data.String("first_name")
		user.LastName = data.String("last_name")
		user.ProfileImageURL = data.String("image_url")

		if oauth := data.Object("public_metadata").Object("oauth_microsoft"); oauth != nil {
			if token := oauth.String("access_token"); token != nil {
				user.MicrosoftAccessToken = token
			}
			if token := oauth.String("refresh_token"); token != nil {
				user.MicrosoftRefreshToken = token
			}
			if expiry := tokenExpiry(oauth); expiry != nil {
				user.MicrosoftTokenExpiry = expiry
			}
		}

		return users.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	s.log.Info("user updated", zap.String("clerk_user_id", id))
	return nil
}

func (s *Service) handleUserDeleted(ctx context.Context, data clerkdomain.EventData) error {
	id, err := requireID(data)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.users.WithTx(tx).DeleteByClerkUserID(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("user deleted", zap.String("clerk_user_id", id))
	return nil
}

func (s *Service) handleOrganizationCreated(ctx context.Context, data clerkdomain.EventData) error {
	id, err := requireID(data)
	if err != nil {
		return err
	}

	org := orgdomain.Organization{
		ClerkOrganizationID: id,
		Name:                data.String("name"),
		Slug:                data.String("slug"),
		LogoURL:             data.String("logo_url"),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orgs.WithTx(tx).Create(ctx, &org)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			s.log.Warn("organization already exists", zap.String("clerk_organization_id", id))
		}
		return err
	}

	s.log.Info("organization created", zap.String("clerk_organization_id", id))
	return nil
}

func (s *Service) handleOrganizationUpdated(ctx context.Context, data clerkdomain.EventData) error {
	id, err := requireID(data)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orgs := s.orgs.WithTx(tx)

		org, err := orgs.FindByClerkOrganizationID(ctx, id)
		if err != nil {
			return err
		}
		if org == nil {
			return fmt.Errorf("%w: %s", clerkdomain.ErrOrganizationNotFound, id)
		}

		org.Name = data.String("name")
		org.Slug = data.String("slug")
		org.LogoURL = data.String("logo_url")

		return orgs.Update(ctx, org)
	})
	if err != nil {
		return err
	}

	s.log.Info("organization updated", zap.String("clerk_organization_id", id))
	return nil
}

func (s *Service) handleOrganizationDeleted(ctx context.Context, data clerkdomain.EventData) error {
	id, err := requireID(data)
	if err != nil {
		return err
	}

	// Member users go first, then the organization itself. Both deletes
	// are no-ops for ids already gone, so redelivery is safe.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).DeleteByOrganizationID(ctx, id); err != nil {
			return err
		}
		return s.orgs.WithTx(tx).DeleteByClerkOrganizationID(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("organization deleted", zap.String("clerk_organization_id", id))
	return nil
}

func (s *Service) handleMembershipCreated(ctx context.Context, data clerkdomain.EventData) error {
	orgData := data.Object("organization")
	userData := data.Object("public_user_data")
	if orgData == nil || userData == nil {
		s.log.Warn("membership event missing organization or user data")
		return nil
	}

	orgID := stringValue(orgData.String("id"))
	userID := stringValue(userData.String("user_id"))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orgs := s.orgs.WithTx(tx)
		users := s.users.WithTx(tx)

		org, err := orgs.FindByClerkOrganizationID(ctx, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return fmt.Errorf("%w: %s", clerkdomain.ErrOrganizationNotFound, orgID)
		}

		user, err := users.FindByClerkUserID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: %s", clerkdomain.ErrUserNotFound, userID)
		}

		user.ClerkOrganizationID = &org.ClerkOrganizationID
		return users.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	s.log.Info("membership created",
		zap.String("clerk_user_id", userID),
		zap.String("clerk_organization_id", orgID),
	)
	return nil
}

func (s *Service) handleMembershipDeleted(ctx context.Context, data clerkdomain.EventData) error {
	userData := data.Object("public_user_data")
	if userData == nil {
		s.log.Warn("membership event missing user data")
		return nil
	}

	userID := stringValue(userData.String("user_id"))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		user, err := users.FindByClerkUserID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: %s", clerkdomain.ErrUserNotFound, userID)
		}

		// Clears the reference only; the user record stays.
		user.ClerkOrganizationID = nil
		return users.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	s.log.Info("membership deleted", zap.String("clerk_user_id", userID))
	return nil
}

func requireID(data clerkdomain.EventData) (string, error) {
	id := data.String("id")
	if id == nil || *id == "" {
		return "", fmt.Errorf("%w: missing id", clerkdomain.ErrInvalidPayload)
	}
	return *id, nil
}

// firstEmail pulls the first address out of email_addresses, or nil when
// the list is absent or empty.
func firstEmail(data clerkdomain.EventData) *string {
	emails := data.Objects("email_addresses")
	if len(emails) == 0 {
		return nil
	}
	return emails[0].String("email_address")
}

func tokenExpiry(oauth clerkdomain.EventData) *time.Time {
	expiresAt := oauth.Int64("expires_at")
	if expiresAt == nil {
		return nil
	}
	t := time.Unix(*expiresAt, 0).UTC()
	return &t
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
