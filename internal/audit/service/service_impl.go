package service

import (
	"context"

	auditdomain "github.com/frontstep/dealanalyzer/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("audit.service"),
	}
}

// Record writes the delivery row. Failures are logged and swallowed so the
// audit trail never changes the webhook response.
func (s *Service) Record(ctx context.Context, entry auditdomain.Entry) {
	row := auditdomain.WebhookDelivery{
		MessageID: entry.MessageID,
		EventType: entry.EventType,
		Outcome:   entry.Outcome,
		Payload:   datatypes.JSON(entry.Payload),
	}
	if entry.Err != nil {
		msg := entry.Err.Error()
		row.Error = &msg
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.log.Warn("failed to record webhook delivery",
			zap.String("message_id", entry.MessageID),
			zap.String("event_type", entry.EventType),
			zap.Error(err),
		)
	}
}
