package middleware

import (
	"strings"

	"github.com/gazer/client-registry/internal/constants"
)

// Access is the kind of check a path rule demands.
type Access int

const (
	// Authenticated requires any logged-in user.
	Authenticated Access = iota
	// PermitAll lets anonymous callers through.
	PermitAll
	// HasAuthority requires the user's role to grant Rule.Authority.
	HasAuthority
)

// Requirement is what a request must satisfy to reach its handler.
type Requirement struct {
	Access    Access
	Authority string
}

// Rule binds a path pattern to a requirement. A pattern ending in "/**" matches
// the prefix and everything below it; any other pattern matches one path exactly.
type Rule struct {
	Pattern     string
	Requirement Requirement
}

func (r Rule) Matches(path string) bool {
	path = normalizePath(path)
	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		return path == normalizePath(prefix) || strings.HasPrefix(path, prefix+"/")
	}
	return path == normalizePath(r.Pattern)
}

// Policy is an ordered rule table; the first match wins.
type Policy struct {
	rules    []Rule
	fallback Requirement
}

// NewPolicy builds a policy. Paths no rule matches require authentication.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{
		rules:    append([]Rule(nil), rules...),
		fallback: Requirement{Access: Authenticated},
	}
}

// Requirement returns the requirement of the first rule matching path.
func (p *Policy) Requirement(path string) Requirement {
	for _, rule := range p.rules {
		if rule.Matches(path) {
			return rule.Requirement
		}
	}
	return p.fallback
}

// Authority returns rules requiring authority on each pattern.
func Authority(authority string, patterns ...string) []Rule {
	return rulesFor(Requirement{Access: HasAuthority, Authority: authority}, patterns)
}

// Anonymous returns rules letting anyone reach each pattern.
func Anonymous(patterns ...string) []Rule {
	return rulesFor(Requirement{Access: PermitAll}, patterns)
}

func rulesFor(req Requirement, patterns []string) []Rule {
	rules := make([]Rule, len(patterns))
	for i, p := range patterns {
		rules[i] = Rule{Pattern: p, Requirement: req}
	}
	return rules
}

func normalizePath(path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}

// DefaultPolicy is the route table of the web application.
func DefaultPolicy() *Policy {
	var rules []Rule
	rules = append(rules, Authority(constants.DefaultRoleName,
		"/addclient", "/clients", "/account", "/download", "/update",
		"/findbypass", "/findbyname", "/deleteuser", "/delete",
	)...)
	rules = append(rules, Anonymous(
		"/", "/home", "/register", "/login", "/logout", "/health", "/metrics",
	)...)
	return NewPolicy(rules...)
}
