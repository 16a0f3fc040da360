package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront/internal/domain"
	"github.com/spec-kit/storefront/internal/events"
	"github.com/spec-kit/storefront/internal/repository"
)

const maxActivityEntries = 50

// AuditService records session events. Every event is logged; it is also persisted when a
// repository is configured.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	repo       repository.AuditRepository
}

// NewAuditService creates the service. repo may be nil.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, repo repository.AuditRepository) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		repo:       repo,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventSignedIn,
		events.EventSignedOut,
		events.EventSessionExpired,
		events.EventAccessDenied,
	} {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

// Activity returns the most recent persisted events of a session, newest first.
func (a *AuditService) Activity(ctx context.Context, sessionID string) ([]domain.AuditEntry, error) {
	if a.repo == nil {
		return []domain.AuditEntry{}, nil
	}
	entries, err := a.repo.ListBySession(ctx, sessionID, maxActivityEntries)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}

func (a *AuditService) record(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("session_id", event.Actor.SessionID),
		zap.String("subject", event.Actor.Subject),
		zap.String("role", string(event.Actor.Role)),
		zap.Any("payload", event.Payload))

	if a.repo == nil {
		return nil
	}

	entry := &domain.AuditEntry{
		ID:         event.ID,
		EventType:  string(event.Type),
		SessionID:  event.Actor.SessionID,
		Subject:    event.Actor.Subject,
		Role:       event.Actor.Role,
		OccurredAt: event.Timestamp,
	}
	if event.Payload != nil {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			return err
		}
		entry.Payload = payload
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		a.logger.Warn("persist audit event", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	return nil
}
