package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	auditdomain "github.com/frontstep/dealanalyzer/internal/audit/domain"
	clerkdomain "github.com/frontstep/dealanalyzer/internal/clerk/domain"
)

// HandleClerkWebhook is the single provider-facing endpoint. The body must
// be verified as raw bytes before any decoding; the response contract is
// fixed: 200 on success (including ignored event types), 401 on signature
// failure, 500 on decode or handler failure.
func (s *Server) HandleClerkWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.log.Error("failed to read webhook body", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error processing webhook: %s", err.Error())
		return
	}

	msgID := c.GetHeader("svix-id")
	if err := s.verifier.Verify(payload,
		msgID,
		c.GetHeader("svix-timestamp"),
		c.GetHeader("svix-signature"),
	); err != nil {
		s.log.Warn("webhook verification failed", zap.String("svix_id", msgID))
		s.obsMetrics.RecordSignatureRejection()
		c.String(http.StatusUnauthorized, "Invalid signature")
		return
	}

	event, err := clerkdomain.ParseEvent(payload)
	if err != nil {
		s.log.Error("failed to decode webhook payload",
			zap.String("svix_id", msgID),
			zap.Error(err),
		)
		s.record(c, msgID, "", auditdomain.OutcomeFailed, err, payload)
		c.String(http.StatusInternalServerError, "Error processing webhook: %s", err.Error())
		return
	}

	if err := s.clerkSvc.Process(ctx, event); err != nil {
		if errors.Is(err, clerkdomain.ErrEventIgnored) {
			s.record(c, msgID, event.Type, auditdomain.OutcomeIgnored, nil, payload)
			s.obsMetrics.RecordDelivery(event.Type, auditdomain.OutcomeIgnored)
			c.String(http.StatusOK, "Webhook processed successfully")
			return
		}

		s.log.Error("failed to process webhook",
			zap.String("svix_id", msgID),
			zap.String("event_type", event.Type),
			zap.Error(err),
		)
		s.record(c, msgID, event.Type, auditdomain.OutcomeFailed, err, payload)
		s.obsMetrics.RecordDelivery(event.Type, auditdomain.OutcomeFailed)
		c.String(http.StatusInternalServerError, "Error processing webhook: %s", err.Error())
		return
	}

	s.record(c, msgID, event.Type, auditdomain.OutcomeProcessed, nil, payload)
	s.obsMetrics.RecordDelivery(event.Type, auditdomain.OutcomeProcessed)
	c.String(http.StatusOK, "Webhook processed successfully")
}

func (s *Server) record(c *gin.Context, msgID, eventType, outcome string, err error, payload []byte) {
	if s.auditSvc == nil {
		return
	}
	s.auditSvc.Record(c.Request.Context(), auditdomain.Entry{
		MessageID: msgID,
		EventType: eventType,
		Outcome:   outcome,
		Err:       err,
		Payload:   payload,
	})
}
