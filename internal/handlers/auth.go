package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/dto"
	apierrors "github.com/gazer/client-registry/internal/errors"
	"github.com/gazer/client-registry/internal/logger"
	"github.com/gazer/client-registry/internal/metrics"
	"github.com/gazer/client-registry/internal/middleware"
	"github.com/gazer/client-registry/internal/models"
	"github.com/gazer/client-registry/internal/repository"
	"github.com/gazer/client-registry/internal/services"
)

// AuthHandler serves the home, login and registration pages.
type AuthHandler struct {
	userService *services.UserService
	roleRepo    repository.RoleRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService *services.UserService, roleRepo repository.RoleRepository) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		roleRepo:    roleRepo,
	}
}

type registerForm struct {
	Username string `form:"username" binding:"required,min=3,max=20"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8,maxbytes=72"`
}

// Home renders the landing page for anonymous and authenticated callers.
func (h *AuthHandler) Home(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, dto.HomeView{User: dto.ToUserDTOPtr(user)})
}

// LoginPage renders the login form. Authenticated callers go home.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, constants.PathHome)
		return
	}
	query := c.Request.URL.Query()
	c.JSON(http.StatusOK, dto.LoginView{
		Error:  query.Has("error"),
		Logout: query.Has("logout"),
	})
}

// RegisterPage renders the registration form. Authenticated callers go home.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, constants.PathHome)
		return
	}
	c.JSON(http.StatusOK, h.newRegisterView(registerForm{}))
}

// Register creates an account with the default role and sends the caller home.
// The caller still has to log in.
func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		fields, ok := fieldErrors(err)
		if !ok {
			apierrors.BadRequest(c, "Invalid form")
			return
		}
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		view := h.newRegisterView(form)
		view.Errors.Fields = fields
		c.JSON(http.StatusOK, view)
		return
	}

	_, err := h.userService.Register(services.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			view := h.newRegisterView(form)
			view.Errors.Add(apierrors.MarkerEmailTaken)
			c.JSON(http.StatusOK, view)
			return
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		logger.Get().Error().Err(err).Msg("registration failed")
		apierrors.InternalError(c, "")
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	c.Redirect(http.StatusFound, constants.PathHome)
}

// newRegisterView offers the default role, falling back to its well-known name
// when the lookup fails.
func (h *AuthHandler) newRegisterView(form registerForm) dto.RegisterView {
	role := models.Role{ID: constants.DefaultRoleID, RoleName: constants.DefaultRoleName}
	if stored, err := h.roleRepo.FindByID(constants.DefaultRoleID); err == nil {
		role = *stored
	} else {
		logger.Get().Warn().Err(err).Msg("default role lookup failed")
	}
	return dto.RegisterView{
		Form: dto.RegisterForm{Username: form.Username, Email: form.Email},
		Role: dto.ToRoleDTO(role),
	}
}
