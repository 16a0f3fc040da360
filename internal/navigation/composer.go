package navigation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront/internal/auth"
	"github.com/spec-kit/storefront/internal/domain"
	"github.com/spec-kit/storefront/internal/events"
	"github.com/spec-kit/storefront/internal/observability"
	"github.com/spec-kit/storefront/internal/session"
)

// View tells the storefront shell what to render for a navigation.
type View struct {
	Path        string            `json:"path"`
	Page        string            `json:"page,omitempty"`
	Params      map[string]string `json:"params,omitempty"`
	Chrome      Chrome            `json:"chrome"`
	Padding     bool              `json:"padding"`
	Footer      bool              `json:"footer"`
	Layout      Layout            `json:"layout"`
	SidebarOpen bool              `json:"sidebar_open"`
	Theme       domain.Theme      `json:"theme"`
	Decision    domain.Decision   `json:"decision"`
	Notices     []domain.Notice   `json:"notices,omitempty"`
}

// Composer turns a path change into a View: it runs the expiry monitor, classifies the path and
// asks the role gate. Nothing is cached between navigations.
type Composer struct {
	table      *Table
	monitor    *session.Monitor
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewComposer wires a composer. dispatcher and metrics may be nil.
func NewComposer(table *Table, monitor *session.Monitor, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *Composer {
	if dispatcher == nil {
		dispatcher = events.Discard
	}
	return &Composer{
		table:      table,
		monitor:    monitor,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// Navigate composes the view for path. Notices are only drained when the page is mounted, so a
// notice raised on a redirected navigation shows on the redirect target.
func (c *Composer) Navigate(ctx context.Context, sc *session.Context, path string) View {
	now := c.now()
	c.monitor.CheckAt(ctx, sc, now)

	match := c.table.Classify(path)
	route := match.Route
	decision := auth.Evaluate(sc.Session(), route.Access, match.Path, now)
	c.metrics.RecordDecision(route.Page, decision.Outcome)

	view := View{
		Path:     match.Path,
		Chrome:   route.Chrome,
		Padding:  route.Padding,
		Footer:   route.Footer,
		Layout:   route.Layout,
		Theme:    sc.Theme(),
		Decision: decision,
	}
	if route.Layout == LayoutDashboard {
		view.SidebarOpen = sc.SidebarOpen()
	}

	if !decision.Allowed() {
		c.denied(ctx, sc, match, decision, now)
		return view
	}

	view.Page = route.Page
	view.Params = match.Params
	view.Notices = sc.DrainNotices()
	return view
}

func (c *Composer) denied(ctx context.Context, sc *session.Context, match Match, decision domain.Decision, now time.Time) {
	// Authenticated visitors bounced off guest pages are routine, not denials.
	if match.Route.Access.Kind == domain.AccessGuestOnly {
		return
	}

	actor := events.Actor{SessionID: sc.ID()}
	if claims := sc.Session().Claims; claims != nil {
		actor.Subject, actor.Role = claims.Subject, claims.Role
	}
	c.logger.Debug("navigation redirected",
		zap.String("path", match.Path),
		zap.String("access", match.Route.Access.String()),
		zap.String("target", decision.Target))

	event := events.NewEvent(events.EventAccessDenied, actor, now, events.AccessDeniedPayload{
		Path:   match.Path,
		Access: match.Route.Access.String(),
		Target: decision.Target,
	})
	if err := c.dispatcher.Publish(ctx, event); err != nil {
		c.logger.Warn("publish access_denied", zap.Error(err))
	}
}
