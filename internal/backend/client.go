package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront/internal/config"
	"github.com/spec-kit/storefront/internal/domain"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status the backend answered with.
func (e *Error) StatusCode() int {
	return e.Status
}

// IsUnauthorized reports whether the backend rejected the bearer token.
func IsUnauthorized(err error) bool {
	var backendErr *Error
	return errors.As(err, &backendErr) && backendErr.Status == http.StatusUnauthorized
}

// Client calls the storefront REST backend. Authenticated calls carry the visitor's bearer token.
type Client struct {
	baseURL string
	timeout time.Duration
}

// NewClient builds a client from configuration.
func NewClient(cfg config.BackendConfig) *Client {
	return &Client{baseURL: strings.TrimSuffix(cfg.BaseURL, "/"), timeout: cfg.Timeout()}
}

// Credentials is the sign-in payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, fiber.MethodPost, "/api/auth/login", "", nil, creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("backend returned no token")
	}
	return resp.Token, nil
}

// Register starts a registration and returns the register-in-progress token.
func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, fiber.MethodPost, "/api/auth/register", "", nil, reg, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("backend returned no token")
	}
	return resp.Token, nil
}

// ConfirmRegistration activates the account being registered.
func (c *Client) ConfirmRegistration(ctx context.Context, token, code string) (string, error) {
	return c.message(ctx, fiber.MethodPost, "/api/auth/confirm-registration", token, nil, map[string]string{"code": code})
}

// ForgotPassword asks the backend to mail a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.message(ctx, fiber.MethodPost, "/api/auth/forgot-password", "", nil, map[string]string{"email": email})
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) (string, error) {
	return c.message(ctx, fiber.MethodPost, "/api/auth/reset-password", "", nil, map[string]string{
		"token":    resetToken,
		"password": password,
	})
}

// ListAccounts returns one page of accounts.
func (c *Client) ListAccounts(ctx context.Context, token string, page, size int) (Page[domain.Account], error) {
	var resp Page[domain.Account]
	query := url.Values{"page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}}
	err := c.do(ctx, fiber.MethodGet, "/api/admin", token, query, nil, &resp)
	return resp, err
}

// SetAccountEnabled toggles an account's status.
func (c *Client) SetAccountEnabled(ctx context.Context, token, userID string, enable bool) (string, error) {
	return c.message(ctx, fiber.MethodPut, "/api/admin/"+url.PathEscape(userID), token, nil, map[string]bool{"enable": enable})
}

// ListBrands returns all brands.
func (c *Client) ListBrands(ctx context.Context, token string) ([]domain.Brand, error) {
	var resp []domain.Brand
	err := c.do(ctx, fiber.MethodGet, "/api/brands", token, nil, nil, &resp)
	return resp, err
}

// DeleteBrand removes a brand.
func (c *Client) DeleteBrand(ctx context.Context, token, brandID string) error {
	return c.do(ctx, fiber.MethodDelete, "/api/brands/"+url.PathEscape(brandID), token, nil, nil, nil)
}

// ListCategories returns all categories.
func (c *Client) ListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	var resp []domain.Category
	err := c.do(ctx, fiber.MethodGet, "/api/categories", token, nil, nil, &resp)
	return resp, err
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, token, categoryID string) error {
	return c.do(ctx, fiber.MethodDelete, "/api/categories/"+url.PathEscape(categoryID), token, nil, nil, nil)
}

// message performs a mutation whose answer is either a plain message or an entity.
func (c *Client) message(ctx context.Context, method, path, token string, query url.Values, body any) (string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, token, query, body, &raw); err != nil {
		return "", err
	}
	return extractMessage(raw), nil
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ctx.Err()
		}
		if timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}

	agent := newAgent(method, uri)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		agent.JSON(body)
	}
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	status, payload, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if status < 200 || status > 299 {
		return &Error{Status: status, Message: extractMessage(payload)}
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], payload...)
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func newAgent(method, uri string) *fiber.Agent {
	switch method {
	case fiber.MethodPost:
		return fiber.Post(uri)
	case fiber.MethodPut:
		return fiber.Put(uri)
	case fiber.MethodDelete:
		return fiber.Delete(uri)
	default:
		return fiber.Get(uri)
	}
}

// extractMessage reads {"message": "..."}, a JSON string, or falls back to the raw text.
func extractMessage(payload []byte) string {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	var text string
	if err := json.Unmarshal(payload, &text); err == nil {
		return text
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return ""
	}
	return trimmed
}
