package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront/internal/auth"
	"github.com/spec-kit/storefront/internal/domain"
	"github.com/spec-kit/storefront/internal/events"
	"github.com/spec-kit/storefront/internal/observability"
)

// ExpiredNotice is shown once when the monitor clears an expired session.
const ExpiredNotice = "Your session has expired. Please log in again."

// Monitor force-expires sessions whose token has lapsed. It never blocks and never fails:
// tokens it cannot read are logged and left for the backend to reject.
type Monitor struct {
	logger     *zap.Logger
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewMonitor builds a monitor. dispatcher and metrics may be nil.
func NewMonitor(logger *zap.Logger, dispatcher events.Dispatcher, metrics *observability.Metrics) *Monitor {
	if dispatcher == nil {
		dispatcher = events.Discard
	}
	return &Monitor{logger: logger, dispatcher: dispatcher, metrics: metrics, now: time.Now}
}

// WithClock overrides the wall clock, for tests.
func (m *Monitor) WithClock(now func() time.Time) *Monitor {
	m.now = now
	return m
}

// Check runs once per navigation. It reports whether the session was cleared.
func (m *Monitor) Check(ctx context.Context, sc *Context) bool {
	return m.CheckAt(ctx, sc, m.now())
}

// CheckAt is Check against a caller-supplied instant, so the monitor and the role gate of one
// navigation judge expiry at the same moment.
func (m *Monitor) CheckAt(ctx context.Context, sc *Context, now time.Time) bool {
	current := sc.Session()
	if !current.HasToken() {
		return false
	}
	if current.Claims == nil {
		m.logger.Warn("cannot verify session token",
			zap.String("session_id", sc.ID()),
			zap.Error(sc.DecodeError()))
		return false
	}

	if !auth.IsExpired(current.Claims, now) {
		return false
	}

	claims := *current.Claims
	sc.PushNotice(domain.Notice{Level: domain.NoticeInfo, Message: ExpiredNotice})
	sc.SignOut()
	m.metrics.RecordSessionExpired()

	m.logger.Info("session expired",
		zap.String("session_id", sc.ID()),
		zap.String("subject", claims.Subject),
		zap.String("role", string(claims.Role)))

	event := events.NewEvent(events.EventSessionExpired,
		events.Actor{SessionID: sc.ID(), Subject: claims.Subject, Role: claims.Role},
		now,
		events.SessionExpiredPayload{ExpiredAt: time.Unix(claims.ExpiresAt, 0).UTC()})
	if err := m.dispatcher.Publish(ctx, event); err != nil {
		m.logger.Warn("publish session_expired", zap.Error(err))
	}
	return true
}
