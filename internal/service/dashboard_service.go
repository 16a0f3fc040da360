package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront/internal/backend"
	"github.com/spec-kit/storefront/internal/domain"
	"github.com/spec-kit/storefront/internal/events"
	"github.com/spec-kit/storefront/internal/session"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

const defaultPageSize = 10

// DashboardBackend is the back-office surface of the storefront backend.
type DashboardBackend interface {
	ListAccounts(ctx context.Context, token string, page, size int) (backend.Page[domain.Account], error)
	SetAccountEnabled(ctx context.Context, token, userID string, enable bool) (string, error)
	ListBrands(ctx context.Context, token string) ([]domain.Brand, error)
	DeleteBrand(ctx context.Context, token, brandID string) error
	ListCategories(ctx context.Context, token string) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, token, categoryID string) error
}

// DashboardService proxies back-office calls with the visitor's token. A 401 from the backend
// signs the visitor out unless they signed in again while the call was in flight.
type DashboardService struct {
	backend    DashboardBackend
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService builds the service. dispatcher may be nil.
func NewDashboardService(backend DashboardBackend, dispatcher events.Dispatcher, logger *zap.Logger) *DashboardService {
	if dispatcher == nil {
		dispatcher = events.Discard
	}
	return &DashboardService{backend: backend, dispatcher: dispatcher, logger: logger, now: time.Now}
}

// Accounts lists one page of accounts.
func (s *DashboardService) Accounts(ctx context.Context, sc *session.Context, page, size int) (backend.Page[domain.Account], error) {
	page, size = pageBounds(page, size)
	var result backend.Page[domain.Account]
	err := s.call(ctx, sc, "accounts", func(token string) (err error) {
		result, err = s.backend.ListAccounts(ctx, token, page, size)
		return err
	})
	return result, err
}

// SetAccountEnabled enables or disables an account.
func (s *DashboardService) SetAccountEnabled(ctx context.Context, sc *session.Context, userID string, enable bool) (string, error) {
	var message string
	err := s.call(ctx, sc, "account status", func(token string) (err error) {
		message, err = s.backend.SetAccountEnabled(ctx, token, userID, enable)
		return err
	})
	return message, err
}

// Brands lists one page of brands. The backend returns the full list.
func (s *DashboardService) Brands(ctx context.Context, sc *session.Context, page, size int) (backend.Page[domain.Brand], error) {
	page, size = pageBounds(page, size)
	var brands []domain.Brand
	err := s.call(ctx, sc, "brands", func(token string) (err error) {
		brands, err = s.backend.ListBrands(ctx, token)
		return err
	})
	if err != nil {
		return backend.Page[domain.Brand]{}, err
	}
	return backend.Paginate(brands, page, size), nil
}

// DeleteBrand removes a brand.
func (s *DashboardService) DeleteBrand(ctx context.Context, sc *session.Context, brandID string) error {
	return s.call(ctx, sc, "brand", func(token string) error {
		return s.backend.DeleteBrand(ctx, token, brandID)
	})
}

// Categories lists one page of categories. The backend returns the full list.
func (s *DashboardService) Categories(ctx context.Context, sc *session.Context, page, size int) (backend.Page[domain.Category], error) {
	page, size = pageBounds(page, size)
	var categories []domain.Category
	err := s.call(ctx, sc, "categories", func(token string) (err error) {
		categories, err = s.backend.ListCategories(ctx, token)
		return err
	})
	if err != nil {
		return backend.Page[domain.Category]{}, err
	}
	return backend.Paginate(categories, page, size), nil
}

// DeleteCategory removes a category.
func (s *DashboardService) DeleteCategory(ctx context.Context, sc *session.Context, categoryID string) error {
	return s.call(ctx, sc, "category", func(token string) error {
		return s.backend.DeleteCategory(ctx, token, categoryID)
	})
}

func pageBounds(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	return page, size
}

func (s *DashboardService) call(ctx context.Context, sc *session.Context, resource string, fn func(token string) error) error {
	generation := sc.Generation()
	actor := actorOf(sc)

	err := fn(sc.Session().Token)
	if err == nil {
		return nil
	}
	if !backend.IsUnauthorized(err) {
		return backendError(err, resource+" request rejected")
	}

	signedOut, storeErr := sc.SignOutIfGeneration(ctx, generation)
	if storeErr != nil {
		return apperrors.NewInternalError(storeErr)
	}
	if !signedOut {
		s.logger.Debug("ignoring stale backend rejection", zap.String("session_id", sc.ID()))
		return apperrors.NewUnauthorized("backend rejected a previous session")
	}

	sc.PushNotice(domain.Notice{Level: domain.NoticeInfo, Message: session.ExpiredNotice})
	s.logger.Info("backend rejected session token", zap.String("session_id", sc.ID()), zap.String("resource", resource))
	event := events.NewEvent(events.EventSignedOut, actor, s.now(), events.SignedOutPayload{Reason: events.ReasonBackendRejected})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
	return apperrors.NewUnauthorized("session rejected by backend")
}
