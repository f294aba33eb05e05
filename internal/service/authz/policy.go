package authz

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is reserved for role-restricted rules.
	ErrForbidden = errors.New("forbidden")
)

type Access int

const (
	Authenticated Access = iota
	Public
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	default:
		return "authenticated"
	}
}

// AnyMethod matches every HTTP method.
const AnyMethod = ""

// Rule maps a method and an Ant-style path pattern to an access level.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
}

// Table is an ordered, immutable list of rules. The first matching rule wins;
// requests matching no rule require authentication.
type Table struct {
	rules []Rule
}

// NewTable validates rules and keeps them in order.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		if err := validatePattern(r.Pattern); err != nil {
			return nil, fmt.Errorf("rule %s %s: %w", r.Method, r.Pattern, err)
		}
		r.Method = strings.ToUpper(r.Method)
		t.rules = append(t.rules, r)
	}
	return t, nil
}

// DefaultRules is the route policy of the forum API.
func DefaultRules() []Rule {
	return []Rule{
		{Method: http.MethodGet, Pattern: "/topicos", Access: Public},
		{Method: http.MethodGet, Pattern: "/topicos/*", Access: Public},
		{Method: http.MethodPost, Pattern: "/auth", Access: Public},
		{Method: http.MethodGet, Pattern: "/actuator/**", Access: Public},

		// static resources and API documentation
		{Method: AnyMethod, Pattern: "/**.html", Access: Public},
		{Method: AnyMethod, Pattern: "/v2/api-docs", Access: Public},
		{Method: AnyMethod, Pattern: "/webjars/**", Access: Public},
		{Method: AnyMethod, Pattern: "/configuration/**", Access: Public},
		{Method: AnyMethod, Pattern: "/swagger-resources/**", Access: Public},
		{Method: AnyMethod, Pattern: "/swagger/**", Access: Public},
	}
}

// NewDefaultTable builds the table from DefaultRules.
func NewDefaultTable() *Table {
	t, err := NewTable(DefaultRules()...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the access level the table assigns to method and path.
func (t *Table) Lookup(method, p string) Access {
	p = cleanPath(p)
	method = strings.ToUpper(method)

	for _, r := range t.rules {
		if r.Method != AnyMethod && r.Method != method {
			continue
		}
		if matchPattern(r.Pattern, p) {
			return r.Access
		}
	}
	return Authenticated
}

// Authorize returns nil when the request may proceed and ErrUnauthenticated
// when the route requires a principal the security context does not hold.
func (t *Table) Authorize(method, p string, sc *models.SecurityContext) error {
	if t.Lookup(method, p) == Public {
		return nil
	}
	if !sc.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func (t *Table) IsAllowed(method, p string, sc *models.SecurityContext) bool {
	return t.Authorize(method, p, sc) == nil
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(p)
}
