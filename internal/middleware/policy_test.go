package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRule_Matches(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/clients", "/clients", true},
		{"/clients", "/clients/", true},
		{"/clients", "/clients/7", false},
		{"/clients", "/clientsx", false},
		{"/static/**", "/static", true},
		{"/static/**", "/static/app.css", true},
		{"/static/**", "/staticx", false},
		{"/", "/", true},
		{"/", "", true},
		{"/", "/home", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			rule := Rule{Pattern: tt.pattern}
			assert.Equal(t, tt.want, rule.Matches(tt.path))
		})
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	var rules []Rule
	rules = append(rules, Anonymous("/docs/public")...)
	rules = append(rules, Authority("USER", "/docs/**")...)
	policy := NewPolicy(rules...)

	assert.Equal(t, PermitAll, policy.Requirement("/docs/public").Access)

	req := policy.Requirement("/docs/private")
	assert.Equal(t, HasAuthority, req.Access)
	assert.Equal(t, "USER", req.Authority)
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()

	for _, path := range []string{"/addclient", "/clients", "/account", "/download", "/update", "/findbypass", "/findbyname", "/deleteuser", "/delete"} {
		req := policy.Requirement(path)
		assert.Equal(t, HasAuthority, req.Access, path)
		assert.Equal(t, "USER", req.Authority, path)
	}

	for _, path := range []string{"/", "/home", "/register", "/login", "/logout", "/health"} {
		assert.Equal(t, PermitAll, policy.Requirement(path).Access, path)
	}

	assert.Equal(t, Authenticated, policy.Requirement("/unknown").Access)
}
