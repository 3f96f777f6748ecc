package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/daily-report-service/internal/events"
	"github.com/spec-kit/daily-report-service/internal/observability"
)

// AuditService records auth events to the log and to metrics.
type AuditService struct {
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{logger: logger.Named("audit"), metrics: metrics}
}

// EventTypes lists the events the audit trail records.
func (a *AuditService) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventTokenRejected,
		events.EventTokenRefreshed,
		events.EventLogout,
		events.EventPasswordChanged,
		events.EventSalesCreated,
	}
}

// Record writes one audit entry.
func (a *AuditService) Record(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.Time("at", event.Timestamp),
	}
	if event.SalesID != nil {
		fields = append(fields, zap.Int64("sales_id", *event.SalesID))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}

	var reason string
	switch payload := event.Payload.(type) {
	case events.LoginFailedPayload:
		reason = payload.Reason
		fields = append(fields, zap.String("email", payload.Email), zap.String("reason", reason))
	case events.TokenRejectedPayload:
		reason = payload.Reason
		fields = append(fields, zap.String("reason", reason), zap.String("path", payload.Path))
	case events.SalesCreatedPayload:
		fields = append(fields, zap.Int64("created_by", payload.CreatedBy), zap.String("role", payload.Role))
	}

	switch event.Type {
	case events.EventLoginFailed, events.EventTokenRejected:
		a.logger.Warn("auth event", fields...)
	default:
		a.logger.Info("auth event", fields...)
	}
	a.metrics.RecordAuthEvent(string(event.Type), reason)
	return nil
}
