package navigation

import (
	"slices"
	"sort"
	"strings"

	"github.com/spec-kit/storefront/internal/domain"
)

// Chrome is the navigation bar rendered above the page.
type Chrome string

const (
	ChromeNone      Chrome = "none"
	ChromePublicNav Chrome = "public-nav"
	ChromeAuthNav   Chrome = "auth-nav"
)

// Layout is the page shell.
type Layout string

const (
	LayoutPlain     Layout = "plain"
	LayoutDashboard Layout = "dashboard"
)

// MatchKind selects how a route pattern is compared with a path.
type MatchKind uint8

const (
	// MatchExact requires the normalized path to equal the pattern.
	MatchExact MatchKind = iota
	// MatchPrefix matches the pattern followed by exactly one non-empty segment, the route parameter.
	MatchPrefix
)

// Route describes one entry of the path-classification table.
type Route struct {
	Pattern string
	Match   MatchKind
	Param   string
	Page    string
	Chrome  Chrome
	Padding bool
	Footer  bool
	Layout  Layout
	Access  domain.Access

	// Reserved lists segments a prefix route never takes as its parameter.
	Reserved []string
}

// Match is the result of classifying a path.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// NotFound is used for paths no route claims.
var NotFound = Route{
	Page:   "not-found",
	Chrome: ChromeNone,
	Layout: LayoutPlain,
	Access: domain.Public(),
}

// Table classifies paths. It is built once at startup and never mutated.
type Table struct {
	exact    map[string]Route
	prefixes []Route
}

// NewTable indexes routes. Prefix routes are tried longest pattern first.
func NewTable(routes []Route) *Table {
	t := &Table{exact: make(map[string]Route, len(routes))}
	for _, r := range routes {
		switch r.Match {
		case MatchPrefix:
			r.Pattern = strings.TrimSuffix(r.Pattern, "/") + "/"
			t.prefixes = append(t.prefixes, r)
		default:
			t.exact[Normalize(r.Pattern)] = r
		}
	}
	sort.SliceStable(t.prefixes, func(i, j int) bool {
		return len(t.prefixes[i].Pattern) > len(t.prefixes[j].Pattern)
	})
	return t
}

// Classify finds the route for path, falling back to NotFound.
func (t *Table) Classify(path string) Match {
	path = Normalize(path)
	if r, ok := t.exact[path]; ok {
		return Match{Route: r, Path: path}
	}
	for _, r := range t.prefixes {
		rest, ok := strings.CutPrefix(path, r.Pattern)
		if !ok || rest == "" || strings.Contains(rest, "/") || slices.Contains(r.Reserved, rest) {
			continue
		}
		return Match{Route: r, Path: path, Params: map[string]string{r.Param: rest}}
	}
	return Match{Route: NotFound, Path: path}
}

// Normalize strips the query string and trailing slashes; the root stays "/".
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// StorefrontRoutes is the route surface of the storefront and its back-office dashboard.
func StorefrontRoutes() []Route {
	customer := domain.RequireRoles(domain.RoleCustomer)
	backOffice := domain.RequireRoles(domain.RoleAdmin, domain.RoleStaff)
	adminOnly := domain.RequireRoles(domain.RoleAdmin)

	shop := func(pattern, page string, access domain.Access) Route {
		return Route{Pattern: pattern, Page: page, Chrome: ChromePublicNav, Padding: true, Footer: true, Layout: LayoutPlain, Access: access}
	}
	guest := func(pattern, page string) Route {
		return Route{Pattern: pattern, Page: page, Chrome: ChromeAuthNav, Padding: true, Layout: LayoutPlain, Access: domain.GuestOnly()}
	}
	dashboard := func(pattern, page string, access domain.Access) Route {
		return Route{Pattern: pattern, Page: page, Chrome: ChromeNone, Layout: LayoutDashboard, Access: access}
	}
	dashboardDetail := func(pattern, param, page string, access domain.Access, reserved ...string) Route {
		r := dashboard(pattern, page, access)
		r.Match, r.Param, r.Reserved = MatchPrefix, param, reserved
		return r
	}

	productDetail := shop("/shop/product/", "product-detail", domain.Public())
	productDetail.Match, productDetail.Param = MatchPrefix, "id"

	profile := shop("/user/information", "user-profile", customer)
	profile.Footer = false

	return []Route{
		shop("/", "home", domain.Public()),
		shop("/shop", "shop", domain.Public()),
		shop("/about", "about", domain.Public()),
		shop("/cart", "cart", domain.Public()),
		productDetail,
		shop("/checkout", "checkout", customer),
		profile,
		{Pattern: "/logout", Page: "logout", Chrome: ChromeNone, Layout: LayoutPlain, Access: customer},

		guest("/login", "login"),
		guest("/register", "register"),
		guest("/forgotPassword", "forgot-password"),
		guest("/forgotPassword/success", "forgot-password-success"),
		guest("/reset-password", "reset-password"),
		guest("/reset-password/success", "reset-password-success"),
		{Pattern: "/register/confirm-registration", Page: "register-confirm", Chrome: ChromeAuthNav, Padding: true, Layout: LayoutPlain, Access: domain.RegisterOnly()},
		{Pattern: "/register/success", Page: "register-success", Chrome: ChromeNone, Layout: LayoutPlain, Access: domain.Public()},
		{Pattern: domain.PathStaffLogin, Page: "staff-login", Chrome: ChromeNone, Layout: LayoutPlain, Access: domain.GuestOnly()},

		dashboard("/Dashboard", "dashboard", backOffice),
		dashboard("/Dashboard/Categories", "dashboard-categories", backOffice),
		dashboard("/Dashboard/Categories/Create", "dashboard-category-create", adminOnly),
		dashboardDetail("/Dashboard/Categories/Edit/", "categoryId", "dashboard-category-edit", backOffice),
		dashboard("/Dashboard/Brands", "dashboard-brands", backOffice),
		dashboard("/Dashboard/Brands/Create", "dashboard-brand-create", adminOnly),
		dashboardDetail("/Dashboard/Brands/Edit/", "brandId", "dashboard-brand-edit", backOffice),
		dashboard("/Dashboard/Accounts", "dashboard-accounts", adminOnly),
		dashboardDetail("/Dashboard/Accounts/", "userId", "dashboard-account-edit", adminOnly, "Create"),
		dashboard("/Dashboard/Warehouse", "dashboard-warehouse", backOffice),
		dashboardDetail("/Dashboard/Warehouse/", "stockId", "dashboard-stock", backOffice, "Import"),
		dashboardDetail("/Dashboard/Warehouse/Import/", "stockId", "dashboard-stock-import", backOffice),
		dashboard("/Dashboard/Orders", "dashboard-orders", backOffice),
		{Pattern: "/Dashboard/Logout", Page: "logout", Chrome: ChromeNone, Layout: LayoutPlain, Access: backOffice},
	}
}
