package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/logger"
	"github.com/gazer/client-registry/internal/models"
	"github.com/gazer/client-registry/internal/repository"
	"github.com/gazer/client-registry/internal/storage"
	"github.com/gazer/client-registry/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrPassportInUse    = errors.New("passport already registered")
	ErrInvalidDocument  = errors.New("document must be a PDF")
	ErrClientNotFound   = errors.New("client not found")
	ErrDocumentWrite    = errors.New("failed to store document")
	ErrDocumentNotFound = storage.ErrDocumentNotFound
)

// ClientService handles client records and their documents.
type ClientService struct {
	clientRepo    repository.ClientRepository
	docs          storage.DocumentStore
	purgeOnDelete bool
}

// NewClientService creates a new ClientService. With purgeOnDelete single-client
// deletion also removes the stored document; otherwise documents are kept.
func NewClientService(clientRepo repository.ClientRepository, docs storage.DocumentStore, purgeOnDelete bool) *ClientService {
	return &ClientService{
		clientRepo:    clientRepo,
		docs:          docs,
		purgeOnDelete: purgeOnDelete,
	}
}

// CreateClientInput is a validated client form.
type CreateClientInput struct {
	FirstName      string
	LastName       string
	Sex            string
	Age            string
	PassportSeries string
	PassportNumber string
	Phone          string
}

// Document is an uploaded file as received from the form.
type Document struct {
	ContentType string
	Content     io.Reader
}

// IsValidDocument reports whether the upload is declared as a PDF.
func IsValidDocument(contentType string) bool {
	return strings.EqualFold(strings.TrimSpace(contentType), constants.DocumentContentType)
}

// IsPassportInUse reports whether a client visible to ownerID already holds the passport.
func (s *ClientService) IsPassportInUse(series, number string, ownerID uint64) (bool, error) {
	inUse, err := s.clientRepo.ExistsByPassport(series, number, repository.VisibleTo(ownerID))
	if err != nil {
		return false, fmt.Errorf("failed to check passport: %w", err)
	}
	return inUse, nil
}

// CreateClient stores the client for ownerID together with its document.
// The document is written inside the insert transaction: a failed write rolls the
// record back and a failed commit removes the written document.
//
// The passport check and the insert are not serialized; the unique index on
// (user_id, passport_series, passport_number) only guards the same-owner case.
func (s *ClientService) CreateClient(ctx context.Context, input CreateClientInput, doc Document, ownerID uint64) (*models.Client, error) {
	if !IsValidDocument(doc.ContentType) {
		return nil, ErrInvalidDocument
	}

	inUse, err := s.IsPassportInUse(input.PassportSeries, input.PassportNumber, ownerID)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, ErrPassportInUse
	}

	client := &models.Client{
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Sex:            input.Sex,
		Age:            input.Age,
		PassportSeries: input.PassportSeries,
		PassportNumber: input.PassportNumber,
		Phone:          input.Phone,
		UserID:         ownerID,
	}

	written := false
	err = s.clientRepo.CreateWithHook(client, func(c *models.Client) error {
		if err := s.docs.Put(ctx, c.ClientID, doc.Content); err != nil {
			return fmt.Errorf("%w: %v", ErrDocumentWrite, err)
		}
		written = true
		return nil
	})
	if err != nil {
		if written {
			s.discardDocument(ctx, client.ClientID)
		}
		switch {
		case errors.Is(err, ErrDocumentWrite):
			logger.Get().Error().Err(err).Uint64("owner_id", ownerID).Msg("client rolled back after document write failure")
			return nil, err
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrPassportInUse
		default:
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
	}

	return client, nil
}

// DeleteClient removes a client visible to ownerID.
func (s *ClientService) DeleteClient(ctx context.Context, id, ownerID uint64) error {
	removed, err := s.clientRepo.Delete(id, repository.VisibleTo(ownerID))
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if removed == 0 {
		return ErrClientNotFound
	}

	if s.purgeOnDelete {
		s.discardDocument(ctx, id)
	}
	return nil
}

// ListPage returns one page of clients visible to ownerID.
func (s *ClientService) ListPage(page int, ownerID uint64) (utils.Slice[models.Client], error) {
	return s.list(repository.ClientFilter{
		Visibility: repository.VisibleTo(ownerID),
		Page:       utils.PageRequest{Number: utils.ClampPage(page, constants.ClientPageSize), Size: constants.ClientPageSize},
	})
}

// FindByName returns the first page of clients with exactly this name.
func (s *ClientService) FindByName(firstName, lastName string, ownerID uint64) (utils.Slice[models.Client], error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return utils.NewSlice[models.Client](nil, utils.FirstPage()), nil
	}
	return s.list(repository.ClientFilter{
		Visibility: repository.VisibleTo(ownerID),
		FirstName:  firstName,
		LastName:   lastName,
		Page:       utils.FirstPage(),
	})
}

// FindByPassport returns the first page of clients holding exactly this passport.
func (s *ClientService) FindByPassport(series, number string, ownerID uint64) (utils.Slice[models.Client], error) {
	series, number = strings.TrimSpace(series), strings.TrimSpace(number)
	if series == "" || number == "" {
		return utils.NewSlice[models.Client](nil, utils.FirstPage()), nil
	}
	return s.list(repository.ClientFilter{
		Visibility:     repository.VisibleTo(ownerID),
		PassportSeries: series,
		PassportNumber: number,
		Page:           utils.FirstPage(),
	})
}

// DeleteAllOwnedBy removes every client owned by ownerID atomically.
// Documents are left in the store.
func (s *ClientService) DeleteAllOwnedBy(ownerID uint64) (int64, error) {
	removed, err := s.clientRepo.DeleteAllByOwner(ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete clients of user %d: %w", ownerID, err)
	}
	return removed, nil
}

// OpenDocument returns the document of a client visible to ownerID.
func (s *ClientService) OpenDocument(ctx context.Context, id, ownerID uint64) (io.ReadCloser, int64, error) {
	if _, err := s.clientRepo.FindByID(id, repository.VisibleTo(ownerID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrClientNotFound
		}
		return nil, 0, fmt.Errorf("failed to find client: %w", err)
	}

	rc, size, err := s.docs.Open(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			return nil, 0, ErrDocumentNotFound
		}
		return nil, 0, err
	}
	return rc, size, nil
}

func (s *ClientService) list(filter repository.ClientFilter) (utils.Slice[models.Client], error) {
	slice, err := s.clientRepo.List(filter)
	if err != nil {
		return utils.Slice[models.Client]{}, fmt.Errorf("failed to list clients: %w", err)
	}
	return slice, nil
}

func (s *ClientService) discardDocument(ctx context.Context, id uint64) {
	if err := s.docs.Delete(ctx, id); err != nil {
		logger.Get().Warn().Err(err).Uint64("client_id", id).Msg("failed to remove document")
	}
}
