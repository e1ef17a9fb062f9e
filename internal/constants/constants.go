package constants

import "time"

// Session and cookie names
const (
	SessionCookieName    = "JSESSIONID"
	RememberMeCookieName = "remember-me"
	RememberMeParam      = "remember-me"
	RememberMeValidity   = 24 * time.Hour
)

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
)

// Roles
const (
	DefaultRoleID   uint64 = 1
	DefaultRoleName        = "USER"
)

// Client visibility
const (
	// SharedOwnerID marks a client record visible to every user.
	SharedOwnerID uint64 = 0
)

// Pagination
const (
	ClientPageSize = 15
	FirstPage      = 0
)

// Validation
const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

// Documents
const (
	DocumentContentType = "application/pdf"
	DocumentExtension   = ".pdf"
)

// Paths
const (
	PathHome    = "/"
	PathLogin   = "/login"
	PathLogout  = "/logout"
	PathClients = "/clients"
)
