package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gazer/client-registry/internal/constants"
	apierrors "github.com/gazer/client-registry/internal/errors"
	"github.com/gazer/client-registry/internal/logger"
	"github.com/gazer/client-registry/internal/metrics"
	"github.com/gazer/client-registry/internal/models"
	"github.com/gazer/client-registry/internal/services"
)

// Credentials is the user lookup the gatekeeper authenticates against.
type Credentials interface {
	Authenticate(email, password string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	GetUser(id uint64) (*models.User, error)
}

// Gatekeeper moves a session between anonymous and authenticated and enforces
// the path policy on every request.
type Gatekeeper struct {
	users      Credentials
	policy     *Policy
	rememberMe *RememberMe
	cookie     sessions.Options
}

// NewGatekeeper creates a Gatekeeper. cookie must match the options of the session store.
func NewGatekeeper(users Credentials, policy *Policy, rememberMe *RememberMe, cookie sessions.Options) *Gatekeeper {
	return &Gatekeeper{
		users:      users,
		policy:     policy,
		rememberMe: rememberMe,
		cookie:     cookie,
	}
}

// Authorize resolves the caller and applies the policy. It must run after the
// sessions middleware.
func (g *Gatekeeper) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := g.resolve(c)
		if user != nil {
			c.Set(constants.ContextKeyUserID, user.ID)
			c.Set(constants.ContextKeyPrincipal, user)
		}

		req := g.policy.Requirement(c.Request.URL.Path)
		switch req.Access {
		case PermitAll:
		case HasAuthority:
			if user == nil {
				redirectToLogin(c)
				return
			}
			if !user.HasAuthority(req.Authority) {
				apierrors.Forbidden(c, "")
				return
			}
		default:
			if user == nil {
				redirectToLogin(c)
				return
			}
		}

		c.Next()
	}
}

// Login handles the login form: fields email, password and optional remember-me.
func (g *Gatekeeper) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	user, err := g.users.Authenticate(email, password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			logger.Get().Error().Err(err).Msg("login lookup failed")
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		c.Redirect(http.StatusFound, constants.PathLogin+"?error")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(g.cookie)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	if isChecked(c.PostForm(constants.RememberMeParam)) {
		token, _, err := g.rememberMe.Issue(user)
		if err != nil {
			logger.Get().Error().Err(err).Uint64("user_id", user.ID).Msg("failed to issue remember-me token")
		} else {
			g.setRememberMeCookie(c, token, int(g.rememberMe.Validity().Seconds()))
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.Redirect(http.StatusFound, constants.PathHome)
}

// Logout invalidates the session, drops both cookies and redirects home.
func (g *Gatekeeper) Logout(c *gin.Context) {
	g.endSession(c)
	c.Redirect(http.StatusFound, constants.PathHome)
}

func (g *Gatekeeper) resolve(c *gin.Context) *models.User {
	session := sessions.Default(c)

	if id, ok := sessionUserID(session.Get(constants.ContextKeyUserID)); ok {
		user, err := g.users.GetUser(id)
		if err == nil {
			return user
		}
		if errors.Is(err, services.ErrUserNotFound) {
			g.endSession(c)
		} else {
			logger.Get().Error().Err(err).Uint64("user_id", id).Msg("failed to load session user")
		}
		return nil
	}

	token, err := c.Cookie(constants.RememberMeCookieName)
	if err != nil || token == "" {
		return nil
	}

	user, err := g.fromRememberMe(token)
	if err != nil {
		g.setRememberMeCookie(c, "", -1)
		return nil
	}

	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		logger.Get().Error().Err(err).Msg("failed to save session restored from remember-me")
	}
	return user
}

func (g *Gatekeeper) fromRememberMe(token string) (*models.User, error) {
	email, err := g.rememberMe.Subject(token)
	if err != nil {
		return nil, err
	}
	user, err := g.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if err := g.rememberMe.Verify(token, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (g *Gatekeeper) endSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	expired := g.cookie
	expired.MaxAge = -1
	session.Options(expired)
	if err := session.Save(); err != nil {
		logger.Get().Error().Err(err).Msg("failed to invalidate session")
	}
	g.setRememberMeCookie(c, "", -1)
}

func (g *Gatekeeper) setRememberMeCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.RememberMeCookieName, value, maxAge, "/", "", g.cookie.Secure, true)
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, constants.PathLogin)
	c.Abort()
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func sessionUserID(v interface{}) (uint64, bool) {
	switch id := v.(type) {
	case uint64:
		return id, true
	case uint:
		return uint64(id), true
	case int:
		if id < 0 {
			return 0, false
		}
		return uint64(id), true
	default:
		return 0, false
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return sessionUserID(userID)
}

// CurrentUser returns the authenticated user resolved for this request, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
