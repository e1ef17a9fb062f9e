package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/dto"
	apierrors "github.com/gazer/client-registry/internal/errors"
	"github.com/gazer/client-registry/internal/logger"
	"github.com/gazer/client-registry/internal/services"
)

// AccountHandler serves the profile page of the authenticated user.
type AccountHandler struct {
	userService   *services.UserService
	clientService *services.ClientService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(userService *services.UserService, clientService *services.ClientService) *AccountHandler {
	return &AccountHandler{
		userService:   userService,
		clientService: clientService,
	}
}

type updateForm struct {
	registerForm
	OldPassword string `form:"oldPassword"`
}

var profileMarkers = map[string]string{
	"username": apierrors.MarkerUsername,
	"email":    apierrors.MarkerEmail,
	"password": apierrors.MarkerPassword,
}

// Account renders the profile page.
func (h *AccountHandler) Account(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.AccountView{User: dto.ToUserDTOPtr(user)})
}

// Update replaces username, email and password after checking oldPassword,
// then logs the caller out.
func (h *AccountHandler) Update(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	view := dto.AccountView{User: dto.ToUserDTOPtr(user)}

	var form updateForm
	if err := c.ShouldBind(&form); err != nil {
		fields, ok := fieldErrors(err)
		if !ok {
			apierrors.BadRequest(c, "Invalid form")
			return
		}
		for field := range fields {
			if marker, ok := profileMarkers[field]; ok {
				view.Errors.Add(marker)
			}
		}
		view.Errors.Fields = fields
		c.JSON(http.StatusOK, view)
		return
	}

	if !h.userService.VerifyPassword(user.Email, form.OldPassword) {
		view.Errors.Add(apierrors.MarkerWrongPassword)
		view.UpdatedUser = &dto.RegisterForm{Username: form.Username, Email: form.Email}
		c.JSON(http.StatusOK, view)
		return
	}

	err := h.userService.UpdateProfile(user, services.ProfileInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			view.Errors.Add(apierrors.MarkerEmailTaken)
			view.UpdatedUser = &dto.RegisterForm{Username: form.Username, Email: form.Email}
			c.JSON(http.StatusOK, view)
			return
		}
		logger.Get().Error().Err(err).Uint64("user_id", user.ID).Msg("failed to update account")
		apierrors.InternalError(c, "")
		return
	}

	c.Redirect(http.StatusFound, constants.PathLogout)
}

// DeleteUser removes the caller's clients, then the account, then logs out.
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	removed, err := h.clientService.DeleteAllOwnedBy(user.ID)
	if err != nil {
		logger.Get().Error().Err(err).Uint64("user_id", user.ID).Msg("failed to delete clients of account")
		apierrors.InternalError(c, "")
		return
	}
	if err := h.userService.DeleteAccount(user); err != nil {
		logger.Get().Error().Err(err).Uint64("user_id", user.ID).Msg("failed to delete account")
		apierrors.InternalError(c, "")
		return
	}

	logger.Get().Info().Uint64("user_id", user.ID).Int64("clients_removed", removed).Msg("account deleted")
	c.Redirect(http.StatusFound, constants.PathLogout)
}
