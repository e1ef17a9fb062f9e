package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/dto"
	apierrors "github.com/gazer/client-registry/internal/errors"
	"github.com/gazer/client-registry/internal/logger"
	"github.com/gazer/client-registry/internal/metrics"
	"github.com/gazer/client-registry/internal/middleware"
	"github.com/gazer/client-registry/internal/models"
	"github.com/gazer/client-registry/internal/services"
	"github.com/gazer/client-registry/internal/storage"
	"github.com/gazer/client-registry/internal/utils"
)

// ClientHandler serves client records of the authenticated user.
type ClientHandler struct {
	clientService  *services.ClientService
	maxUploadBytes int64
}

// NewClientHandler creates a new ClientHandler. Request bodies of /addclient
// larger than maxUploadBytes are rejected; zero disables the limit.
func NewClientHandler(clientService *services.ClientService, maxUploadBytes int64) *ClientHandler {
	return &ClientHandler{
		clientService:  clientService,
		maxUploadBytes: maxUploadBytes,
	}
}

type clientForm struct {
	FirstName      string `form:"firstName" binding:"required,min=3,max=20"`
	LastName       string `form:"lastName" binding:"required,min=3,max=20"`
	Sex            string `form:"sex" binding:"required"`
	Age            string `form:"age" binding:"required,digits=2"`
	PassportSeries string `form:"passportSeries" binding:"required,digits=4"`
	PassportNumber string `form:"passportNumber" binding:"required,digits=6"`
	Phone          string `form:"phone" binding:"required,digits=11"`
}

func (f clientForm) echo() dto.ClientForm {
	return dto.ClientForm{
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Sex:            f.Sex,
		Age:            f.Age,
		PassportSeries: f.PassportSeries,
		PassportNumber: f.PassportNumber,
		Phone:          f.Phone,
	}
}

// AddClientPage renders an empty client form.
func (h *ClientHandler) AddClientPage(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.AddClientView{User: dto.ToUserDTOPtr(user)})
}

// AddClient stores a client with its PDF document for the current user.
// Every failing check adds its marker before the form is re-displayed.
func (h *ClientHandler) AddClient(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	view := dto.AddClientView{User: dto.ToUserDTOPtr(user)}

	var form clientForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.RespondWithError(c, http.StatusRequestEntityTooLarge,
				apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "Upload too large"))
			return
		}
		fields, ok := fieldErrors(err)
		if !ok {
			apierrors.BadRequest(c, "Invalid form")
			return
		}
		view.Errors.Fields = fields
	}
	view.Client = form.echo()

	file, err := c.FormFile("file")
	if err != nil || !services.IsValidDocument(file.Header.Get("Content-Type")) {
		view.Errors.Add(apierrors.MarkerBadFile)
	}

	inUse, err := h.clientService.IsPassportInUse(form.PassportSeries, form.PassportNumber, user.ID)
	if err != nil {
		logger.Get().Error().Err(err).Uint64("user_id", user.ID).Msg("passport check failed")
		apierrors.InternalError(c, "")
		return
	}
	if inUse {
		view.Errors.Add(apierrors.MarkerBadPassport)
	}

	if !view.Errors.Empty() {
		metrics.ClientsRejectedTotal.WithLabelValues(rejectReason(view.Errors)).Inc()
		c.JSON(http.StatusOK, view)
		return
	}

	content, err := file.Open()
	if err != nil {
		apierrors.BadRequest(c, "Unreadable upload")
		return
	}
	defer content.Close()

	_, err = h.clientService.CreateClient(c.Request.Context(), services.CreateClientInput{
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		Sex:            form.Sex,
		Age:            form.Age,
		PassportSeries: form.PassportSeries,
		PassportNumber: form.PassportNumber,
		Phone:          form.Phone,
	}, services.Document{
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	}, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPassportInUse):
			view.Errors.Add(apierrors.MarkerBadPassport)
		case errors.Is(err, services.ErrInvalidDocument):
			view.Errors.Add(apierrors.MarkerBadFile)
		case errors.Is(err, services.ErrDocumentWrite):
			view.Errors.Add(apierrors.MarkerStorage)
		default:
			logger.Get().Error().Err(err).Uint64("user_id", user.ID).Msg("failed to create client")
			apierrors.InternalError(c, "")
			return
		}
		metrics.ClientsRejectedTotal.WithLabelValues(rejectReason(view.Errors)).Inc()
		c.JSON(http.StatusOK, view)
		return
	}

	metrics.ClientsCreatedTotal.Inc()
	c.Redirect(http.StatusFound, constants.PathClients)
}

// ListClients renders one page of the clients visible to the current user.
func (h *ClientHandler) ListClients(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	page := utils.GetPageRequest(c)
	slice, err := h.clientService.ListPage(page.Number, user.ID)
	if err != nil {
		respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewClientsPage(user, slice))
}

// FindByName lists clients matching firstName and lastName exactly.
func (h *ClientHandler) FindByName(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	slice, err := h.clientService.FindByName(c.PostForm("firstName"), c.PostForm("lastName"), user.ID)
	if err != nil {
		respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSearchResults(user, slice))
}

// FindByPassport lists clients matching passportSeries and passportNumber exactly.
func (h *ClientHandler) FindByPassport(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	slice, err := h.clientService.FindByPassport(c.PostForm("passportSeries"), c.PostForm("passportNumber"), user.ID)
	if err != nil {
		respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSearchResults(user, slice))
}

// Download streams the document of a visible client as a PDF attachment.
func (h *ClientHandler) Download(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	content, size, err := h.clientService.OpenDocument(c.Request.Context(), id, user.ID)
	if err != nil {
		respondClientError(c, err)
		return
	}
	defer content.Close()

	c.DataFromReader(http.StatusOK, size, constants.DocumentContentType, content, map[string]string{
		"Content-Disposition": "attachment;filename=" + storage.Name(id),
	})
}

// Delete removes a visible client and returns to the listing.
func (h *ClientHandler) Delete(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), id, user.ID); err != nil {
		if !errors.Is(err, services.ErrClientNotFound) {
			respondClientError(c, err)
			return
		}
		logger.Get().Debug().Uint64("client_id", id).Uint64("user_id", user.ID).Msg("delete of invisible client ignored")
	}
	c.Redirect(http.StatusFound, constants.PathClients)
}

func clientIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid client id")
		return 0, false
	}
	return id, true
}

func rejectReason(errs dto.FormErrors) string {
	switch {
	case errs.Has(apierrors.MarkerStorage):
		return "storage"
	case errs.Has(apierrors.MarkerBadPassport):
		return "passport_in_use"
	case errs.Has(apierrors.MarkerBadFile):
		return "bad_file"
	default:
		return "validation"
	}
}

// principal returns the authenticated user, redirecting to the login page otherwise.
func principal(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, constants.PathLogin)
		c.Abort()
		return nil, false
	}
	return user, true
}

func respondClientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		apierrors.NotFound(c, "Client not found")
	case errors.Is(err, services.ErrDocumentNotFound):
		apierrors.NotFound(c, "Document not found")
	default:
		logger.Get().Error().Err(err).Msg("client request failed")
		apierrors.InternalError(c, "")
	}
}
