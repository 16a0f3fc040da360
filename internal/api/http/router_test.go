package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/storefront/internal/api/http/handlers"
	"github.com/spec-kit/storefront/internal/auth/authtest"
	"github.com/spec-kit/storefront/internal/backend"
	"github.com/spec-kit/storefront/internal/config"
	"github.com/spec-kit/storefront/internal/domain"
	"github.com/spec-kit/storefront/internal/events"
	"github.com/spec-kit/storefront/internal/navigation"
	"github.com/spec-kit/storefront/internal/observability"
	"github.com/spec-kit/storefront/internal/persistence"
	"github.com/spec-kit/storefront/internal/service"
	"github.com/spec-kit/storefront/internal/session"
)

// fakeBackend stands in for the storefront REST backend. Login answers with whatever token is
// queued for the next call.
type fakeBackend struct {
	mu         sync.Mutex
	loginToken string
	brandsCode int
}

func (f *fakeBackend) setLoginToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginToken = token
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/api/auth/login":
		_ = json.NewEncoder(w).Encode(map[string]string{"token": f.loginToken})
	case "/api/brands":
		if f.brandsCode != 0 {
			w.WriteHeader(f.brandsCode)
			return
		}
		_, _ = w.Write([]byte(`[{"brandId":1,"brandName":"Acme"}]`))
	case "/api/admin":
		_, _ = w.Write([]byte(`{"content":[],"totalPages":0,"size":10,"number":0}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testServer struct {
	app     *fiber.App
	backend *fakeBackend
	metrics *observability.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zaptest.NewLogger(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	fake := &fakeBackend{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	sessionCfg := config.SessionConfig{CookieName: "sid", HashKey: []byte("0123456789abcdef0123456789abcdef"), TTLMinutes: 60}
	store := session.NewRedisStore(client, "test:session:", sessionCfg.TTL())
	codec := session.NewCookieCodec(sessionCfg.CookieName, sessionCfg.HashKey, nil)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	auditService := service.NewAuditService(dispatcher, logger, nil)
	auditService.RegisterHandlers()

	monitor := session.NewMonitor(logger, dispatcher, metrics)
	composer := navigation.NewComposer(navigation.NewTable(navigation.StorefrontRoutes()), monitor, dispatcher, metrics, logger)
	backendClient := backend.NewClient(config.BackendConfig{BaseURL: srv.URL, TimeoutSeconds: 5})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:        handlers.NewHealthHandler("storefront-gateway", "test", (*persistence.Postgres)(nil), &persistence.Redis{Client: client}),
		Auth:          handlers.NewAuthHandler(service.NewAuthService(backendClient, dispatcher, logger)),
		Session:       handlers.NewSessionHandler(auditService, nil),
		Navigation:    handlers.NewNavigationHandler(composer),
		Dashboard:     handlers.NewDashboardHandler(service.NewDashboardService(backendClient, dispatcher, logger)),
		SessionStore:  store,
		SessionCookie: codec,
		SessionConfig: sessionCfg,
		Logger:        logger,
	})

	return &testServer{app: app, backend: fake, metrics: metrics}
}

// browser replays the session cookie across requests.
type browser struct {
	t      *testing.T
	server *testServer
	cookie *http.Cookie
}

func (s *testServer) browser(t *testing.T) *browser {
	return &browser{t: t, server: s}
}

func (c *browser) do(method, target string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := c.server.app.Test(req, -1)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, target, err)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "sid" {
			c.cookie = cookie
		}
	}

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func (c *browser) login(role domain.Role, expiresAt time.Time) {
	c.t.Helper()

	token := authtest.TokenWithSecret(c.t, "backend-secret", "person01", role, expiresAt.Add(-2*time.Hour), expiresAt)
	c.server.backend.setLoginToken(token)

	resp, _ := c.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "person01", "password": "secret12"})
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login status = %d", resp.StatusCode)
	}
}

func data(body map[string]any) map[string]any {
	d, _ := body["data"].(map[string]any)
	return d
}

func decision(body map[string]any) (string, string) {
	d, _ := data(body)["decision"].(map[string]any)
	outcome, _ := d["outcome"].(string)
	target, _ := d["target"].(string)
	return outcome, target
}

func TestGuestPageLoadRedirectsToLogin(t *testing.T) {
	t.Parallel()

	c := newTestServer(t).browser(t)

	resp, _ := c.do(http.MethodGet, "/checkout", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/login?next=%2Fcheckout" {
		t.Errorf("Location = %q", got)
	}
	if c.cookie == nil {
		t.Error("no session cookie issued")
	}
}

func TestPageLoadAllowedAndNotFound(t *testing.T) {
	t.Parallel()

	c := newTestServer(t).browser(t)

	resp, body := c.do(http.MethodGet, "/shop/product/42", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	view := data(body)
	params, _ := view["params"].(map[string]any)
	if view["page"] != "product-detail" || params["id"] != "42" || view["chrome"] != "public-nav" {
		t.Errorf("view = %v", view)
	}

	resp, body = c.do(http.MethodGet, "/nowhere", nil)
	if resp.StatusCode != http.StatusNotFound || data(body)["page"] != "not-found" {
		t.Errorf("unmatched path: status=%d body=%v", resp.StatusCode, body)
	}
}

func TestLoginThenNavigate(t *testing.T) {
	t.Parallel()

	c := newTestServer(t).browser(t)
	c.login(domain.RoleCustomer, time.Now().Add(time.Hour))

	_, body := c.do(http.MethodGet, "/api/view?path=/checkout", nil)
	if outcome, _ := decision(body); outcome != string(domain.OutcomeAllow) {
		t.Errorf("checkout outcome = %q", outcome)
	}

	_, body = c.do(http.MethodGet, "/api/view?path=/login", nil)
	if outcome, target := decision(body); outcome != string(domain.OutcomeRedirect) || target != domain.PathHome {
		t.Errorf("login page as customer = %q -> %q", outcome, target)
	}

	_, body = c.do(http.MethodGet, "/api/session", nil)
	if s := data(body); s["authenticated"] != true || s["role"] != "CUSTOMER" {
		t.Errorf("session = %v", s)
	}
}

func TestExpiredSessionShowsNoticeOnce(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	c := server.browser(t)
	c.login(domain.RoleCustomer, time.Now().Add(-time.Minute))

	_, body := c.do(http.MethodGet, "/api/view?path=/checkout", nil)
	if outcome, target := decision(body); outcome != string(domain.OutcomeRedirect) || target != "/login?next=%2Fcheckout" {
		t.Fatalf("checkout = %q -> %q", outcome, target)
	}

	_, body = c.do(http.MethodGet, "/api/view?path=/login", nil)
	notices, _ := data(body)["notices"].([]any)
	if len(notices) != 1 {
		t.Fatalf("notices = %v", notices)
	}
	if n, _ := notices[0].(map[string]any); n["message"] != session.ExpiredNotice {
		t.Errorf("notice = %v", n)
	}

	_, body = c.do(http.MethodGet, "/api/view?path=/login", nil)
	if notices, _ := data(body)["notices"].([]any); len(notices) != 0 {
		t.Errorf("notice shown twice: %v", notices)
	}
	if server.metrics.ExpiredSessions() != 1 {
		t.Errorf("ExpiredSessions() = %d", server.metrics.ExpiredSessions())
	}
}

func TestDashboardAPIAccess(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	guest := server.browser(t)
	if resp, _ := guest.do(http.MethodGet, "/api/dashboard/brands", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("guest status = %d, want 401", resp.StatusCode)
	}

	staff := server.browser(t)
	staff.login(domain.RoleStaff, time.Now().Add(time.Hour))
	if resp, _ := staff.do(http.MethodGet, "/api/dashboard/accounts", nil); resp.StatusCode != http.StatusForbidden {
		t.Errorf("staff accounts status = %d, want 403", resp.StatusCode)
	}
	resp, body := staff.do(http.MethodGet, "/api/dashboard/brands", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("staff brands status = %d", resp.StatusCode)
	}
	if brands, _ := data(body)["content"].([]any); len(brands) != 1 {
		t.Errorf("brands = %v", body["data"])
	}
	if _, body := staff.do(http.MethodGet, "/api/dashboard/brands?page=3&size=5", nil); data(body)["number"] != float64(3) {
		t.Errorf("brands page 3 = %v", body["data"])
	} else if brands, _ := data(body)["content"].([]any); len(brands) != 0 {
		t.Errorf("brands page 3 content = %v", brands)
	}

	admin := server.browser(t)
	admin.login(domain.RoleAdmin, time.Now().Add(time.Hour))
	if resp, _ := admin.do(http.MethodGet, "/api/dashboard/accounts?page=0&size=10", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("admin accounts status = %d", resp.StatusCode)
	}
	if resp, _ := admin.do(http.MethodPut, "/api/dashboard/accounts/u1/status", map[string]string{}); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing enable status = %d, want 400", resp.StatusCode)
	}
}

func TestBackendRejectionSignsOut(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	server.backend.mu.Lock()
	server.backend.brandsCode = http.StatusUnauthorized
	server.backend.mu.Unlock()

	c := server.browser(t)
	c.login(domain.RoleStaff, time.Now().Add(time.Hour))

	if resp, _ := c.do(http.MethodGet, "/api/dashboard/brands", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	_, body := c.do(http.MethodGet, "/api/session", nil)
	if s := data(body); s["authenticated"] != false {
		t.Errorf("session after rejection = %v", s)
	}
}

func TestThemeAndSidebar(t *testing.T) {
	t.Parallel()

	c := newTestServer(t).browser(t)

	if resp, _ := c.do(http.MethodPut, "/api/session/theme", map[string]string{"theme": "neon"}); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid theme status = %d", resp.StatusCode)
	}
	if resp, _ := c.do(http.MethodPut, "/api/session/theme", map[string]string{"theme": "dark"}); resp.StatusCode != http.StatusOK {
		t.Errorf("theme status = %d", resp.StatusCode)
	}
	_, body := c.do(http.MethodPost, "/api/session/sidebar/toggle", nil)
	if data(body)["sidebar_open"] != true {
		t.Errorf("toggle = %v", body)
	}

	_, body = c.do(http.MethodGet, "/api/session", nil)
	if s := data(body); s["theme"] != "dark" || s["sidebar_open"] != true {
		t.Errorf("session = %v", s)
	}
}

func TestLogoutReturnsBack(t *testing.T) {
	t.Parallel()

	c := newTestServer(t).browser(t)
	c.login(domain.RoleCustomer, time.Now().Add(time.Hour))

	_, body := c.do(http.MethodPost, "/api/auth/logout", map[string]string{"back": "/cart"})
	if data(body)["redirect"] != "/cart" {
		t.Errorf("logout = %v", body)
	}
	_, body = c.do(http.MethodGet, "/api/view?path=/checkout", nil)
	if outcome, _ := decision(body); outcome != string(domain.OutcomeRedirect) {
		t.Errorf("checkout after logout = %q", outcome)
	}
}

func TestErrorsRenderAsJSON(t *testing.T) {
	t.Parallel()

	c := newTestServer(t).browser(t)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
		code   string
	}{
		{name: "unknown api route", method: http.MethodGet, target: "/api/missing", status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "view without path", method: http.MethodGet, target: "/api/view", status: http.StatusBadRequest, code: "VALIDATION_FAILED"},
		{name: "weak password", method: http.MethodPost, target: "/api/auth/login", body: map[string]string{"username": "person01", "password": "short"}, status: http.StatusBadRequest, code: "VALIDATION_FAILED"},
		{name: "confirm without registration", method: http.MethodPost, target: "/api/auth/register/confirm", body: map[string]string{"code": "123"}, status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		resp, body := c.do(tt.method, tt.target, tt.body)
		if resp.StatusCode != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.name, resp.StatusCode, tt.status)
			continue
		}
		errBody, _ := body["error"].(map[string]any)
		if errBody["code"] != tt.code {
			t.Errorf("%s: error = %v, want code %s", tt.name, errBody, tt.code)
		}
	}
}

func TestErrorCountersUseRouteTemplates(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	c := server.browser(t)

	for _, target := range []string{"/api/x1", "/api/x2", "/api/x3/deeper"} {
		if resp, _ := c.do(http.MethodGet, target, nil); resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s status = %d, want 404", target, resp.StatusCode)
		}
	}
	for _, target := range []string{"/api/dashboard/brands/1", "/api/dashboard/brands/2"} {
		if resp, _ := c.do(http.MethodDelete, target, nil); resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", target, resp.StatusCode)
		}
	}

	if got := server.metrics.Errors(observability.UnmatchedRoute, http.MethodGet, "NOT_FOUND"); got != 3 {
		t.Errorf("unmatched errors = %d, want 3", got)
	}
	if got := server.metrics.Errors("/api/x1", http.MethodGet, "NOT_FOUND"); got != 0 {
		t.Errorf("raw path errors = %d, want 0", got)
	}
	if got := server.metrics.Errors("/api/dashboard/brands/:id", http.MethodDelete, "UNAUTHORIZED"); got != 2 {
		t.Errorf("brand delete errors = %d, want 2", got)
	}
	if got := server.metrics.Requests(observability.UnmatchedRoute, http.MethodGet, http.StatusNotFound); got != 3 {
		t.Errorf("unmatched requests = %d, want 3", got)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	c := newTestServer(t).browser(t)

	if resp, _ := c.do(http.MethodGet, "/health/live", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("live status = %d", resp.StatusCode)
	}
	resp, body := c.do(http.MethodGet, "/health/ready", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ready status = %d, body = %v", resp.StatusCode, body)
	}
	deps, _ := body["dependencies"].(map[string]any)
	if deps["postgres"] != "disabled" || deps["redis"] != "ok" {
		t.Errorf("dependencies = %v", deps)
	}
	if c.cookie != nil {
		t.Error("health probes should not open sessions")
	}
}
