package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront/internal/auth"
	"github.com/spec-kit/storefront/internal/backend"
	"github.com/spec-kit/storefront/internal/domain"
	"github.com/spec-kit/storefront/internal/events"
	"github.com/spec-kit/storefront/internal/session"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

// AuthBackend is the part of the storefront backend that owns credentials.
type AuthBackend interface {
	Login(ctx context.Context, creds backend.Credentials) (string, error)
	Register(ctx context.Context, reg backend.Registration) (string, error)
	ConfirmRegistration(ctx context.Context, token, code string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, password string) (string, error)
}

// LoginInput is a sign-in attempt from either login page.
type LoginInput struct {
	Username string `validate:"required,min=7,alphanum"`
	Password string `validate:"required,min=8,storepass"`
	Next     string
}

// RegisterInput starts a registration.
type RegisterInput struct {
	Username string `validate:"required,min=7,alphanum"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,storepass"`
}

// ConfirmInput carries the activation code mailed to the visitor.
type ConfirmInput struct {
	Code string `validate:"required"`
}

// ForgotPasswordInput requests a reset link.
type ForgotPasswordInput struct {
	Email string `validate:"required,email"`
}

// ResetPasswordInput sets a new password.
type ResetPasswordInput struct {
	Token    string `validate:"required"`
	Password string `validate:"required,min=8,storepass"`
}

// Outcome tells the shell where to go after an auth action.
type Outcome struct {
	Role     domain.Role `json:"role"`
	Redirect string      `json:"redirect"`
	Message  string      `json:"message,omitempty"`
}

// AuthService coordinates sign-in, registration and sign-out against the backend and the
// visitor's session.
type AuthService struct {
	backend    AuthBackend
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService builds the service. dispatcher may be nil.
func NewAuthService(backend AuthBackend, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	if dispatcher == nil {
		dispatcher = events.Discard
	}
	return &AuthService{backend: backend, dispatcher: dispatcher, logger: logger, now: time.Now}
}

// WithClock overrides the wall clock, for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login exchanges credentials for a token and signs the visitor in. The redirect is the
// requested next path when it is local, otherwise the role's landing page.
func (s *AuthService) Login(ctx context.Context, sc *session.Context, in LoginInput) (Outcome, error) {
	if err := validateInput(in); err != nil {
		return Outcome{}, err
	}

	token, err := s.backend.Login(ctx, backend.Credentials{Username: in.Username, Password: in.Password})
	if err != nil {
		return Outcome{}, backendError(err, "invalid credentials")
	}
	claims, err := s.signIn(ctx, sc, token)
	if err != nil {
		return Outcome{}, err
	}

	redirect, ok := localPath(in.Next)
	if !ok {
		redirect = claims.Role.LandingPath()
	}
	return Outcome{Role: claims.Role, Redirect: redirect}, nil
}

// Register starts a registration. The visitor holds a register-in-progress session until the
// activation code is confirmed.
func (s *AuthService) Register(ctx context.Context, sc *session.Context, in RegisterInput) (Outcome, error) {
	if err := validateInput(in); err != nil {
		return Outcome{}, err
	}

	token, err := s.backend.Register(ctx, backend.Registration{Username: in.Username, Email: in.Email, Password: in.Password})
	if err != nil {
		return Outcome{}, backendError(err, "registration rejected")
	}
	claims, err := s.signIn(ctx, sc, token)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Role: claims.Role, Redirect: domain.PathRegisterConfirm}, nil
}

// ConfirmRegistration activates the account. The register-in-progress session is cleared so the
// visitor signs in with the new account.
func (s *AuthService) ConfirmRegistration(ctx context.Context, sc *session.Context, in ConfirmInput) (Outcome, error) {
	if err := validateInput(in); err != nil {
		return Outcome{}, err
	}
	current := sc.Session()
	if !auth.RegisterInProgress(current, s.now()) {
		return Outcome{}, apperrors.NewUnauthorized("no registration in progress")
	}

	message, err := s.backend.ConfirmRegistration(ctx, current.Token, in.Code)
	if err != nil {
		return Outcome{}, backendError(err, "activation code rejected")
	}
	s.signOut(ctx, sc, events.ReasonRegistrationConfirmed)
	return Outcome{Role: domain.RoleGuest, Redirect: domain.PathRegisterSuccess, Message: message}, nil
}

// ForgotPassword asks the backend to mail a reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, in ForgotPasswordInput) (Outcome, error) {
	if err := validateInput(in); err != nil {
		return Outcome{}, err
	}
	message, err := s.backend.ForgotPassword(ctx, in.Email)
	if err != nil {
		return Outcome{}, backendError(err, "reset request rejected")
	}
	return Outcome{Role: domain.RoleGuest, Redirect: domain.PathForgotPasswordSent, Message: message}, nil
}

// ResetPassword sets a new password with a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) (Outcome, error) {
	if err := validateInput(in); err != nil {
		return Outcome{}, err
	}
	message, err := s.backend.ResetPassword(ctx, in.Token, in.Password)
	if err != nil {
		return Outcome{}, backendError(err, "reset token rejected")
	}
	return Outcome{Role: domain.RoleGuest, Redirect: domain.PathResetPasswordDone, Message: message}, nil
}

// Logout clears the session and sends the visitor back to where they came from. Without a usable
// back path, back-office roles land on the staff login and everyone else on the home page.
func (s *AuthService) Logout(ctx context.Context, sc *session.Context, back string) Outcome {
	role := domain.RoleGuest
	if claims := sc.Session().Claims; claims != nil {
		role = claims.Role
	}
	if sc.Session().HasToken() {
		s.signOut(ctx, sc, events.ReasonLogout)
	}

	redirect, ok := localPath(back)
	if !ok {
		redirect = domain.PathHome
		if role == domain.RoleAdmin || role == domain.RoleStaff {
			redirect = domain.PathStaffLogin
		}
	}
	return Outcome{Role: domain.RoleGuest, Redirect: redirect}
}

func (s *AuthService) signIn(ctx context.Context, sc *session.Context, token string) (*domain.Claims, error) {
	if err := sc.SignIn(token); err != nil {
		return nil, apperrors.NewBadGateway("backend issued an unreadable token", err)
	}
	claims := sc.Session().Claims

	s.logger.Info("signed in",
		zap.String("session_id", sc.ID()),
		zap.String("subject", claims.Subject),
		zap.String("role", string(claims.Role)))
	s.publish(ctx, events.NewEvent(events.EventSignedIn,
		events.Actor{SessionID: sc.ID(), Subject: claims.Subject, Role: claims.Role},
		s.now(), nil))
	return claims, nil
}

func (s *AuthService) signOut(ctx context.Context, sc *session.Context, reason string) {
	actor := actorOf(sc)
	sc.SignOut()

	s.logger.Info("signed out", zap.String("session_id", sc.ID()), zap.String("reason", reason))
	s.publish(ctx, events.NewEvent(events.EventSignedOut, actor, s.now(), events.SignedOutPayload{Reason: reason}))
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func actorOf(sc *session.Context) events.Actor {
	actor := events.Actor{SessionID: sc.ID()}
	if claims := sc.Session().Claims; claims != nil {
		actor.Subject = claims.Subject
		actor.Role = claims.Role
	}
	return actor
}

// localPath accepts only same-origin absolute paths. Browsers drop tab and newline
// inside URLs, so any control character is refused outright.
func localPath(p string) (string, bool) {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return "", false
	}
	for _, r := range p {
		if r < 0x20 || r == 0x7f || r == '\\' {
			return "", false
		}
	}
	u, err := url.Parse(p)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return p, true
}
