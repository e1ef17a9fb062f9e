package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/gazer/client-registry/internal/models"
	"github.com/gazer/client-registry/internal/repository"
	"github.com/gazer/client-registry/internal/storage"
	"github.com/gazer/client-registry/internal/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// failingStore rejects every write.
type failingStore struct {
	storage.DocumentStore
}

func (failingStore) Put(context.Context, uint64, io.Reader) error {
	return errors.New("disk full")
}

type ClientServiceTestSuite struct {
	suite.Suite
	db    *gorm.DB
	docs  *storage.LocalStore
	repo  repository.ClientRepository
	svc   *ClientService
	ctx   context.Context
	owner uint64
}

func (s *ClientServiceTestSuite) SetupTest() {
	var err error
	s.db = testutil.OpenDB(s.T())
	s.docs, err = storage.NewLocalStore(s.T().TempDir())
	s.Require().NoError(err)
	s.repo = repository.NewClientRepository(s.db)
	s.svc = NewClientService(s.repo, s.docs, false)
	s.ctx = context.Background()
	s.owner = 7
}

func clientInput(series, number string) CreateClientInput {
	return CreateClientInput{
		FirstName:      "Ivan",
		LastName:       "Petrov",
		Sex:            "male",
		Age:            "30",
		PassportSeries: series,
		PassportNumber: number,
		Phone:          "88005553535",
	}
}

func withoutDocument(*models.Client) error { return nil }

func pdf(body string) Document {
	return Document{ContentType: "application/pdf", Content: strings.NewReader(body)}
}

func (s *ClientServiceTestSuite) TestCreateClient_StoresRecordAndDocument() {
	client, err := s.svc.CreateClient(s.ctx, clientInput("1111", "222222"), pdf("%PDF doc"), s.owner)
	s.Require().NoError(err)
	s.Equal(s.owner, client.UserID)

	rc, _, err := s.svc.OpenDocument(s.ctx, client.ClientID, s.owner)
	s.Require().NoError(err)
	body, err := io.ReadAll(rc)
	rc.Close()
	s.Require().NoError(err)
	s.Equal("%PDF doc", string(body))
}

func (s *ClientServiceTestSuite) TestCreateClient_RejectsNonPDF() {
	_, err := s.svc.CreateClient(s.ctx, clientInput("1111", "222222"),
		Document{ContentType: "image/png", Content: strings.NewReader("png")}, s.owner)
	s.ErrorIs(err, ErrInvalidDocument)
}

func (s *ClientServiceTestSuite) TestCreateClient_RejectsPassportInVisibilitySet() {
	_, err := s.svc.CreateClient(s.ctx, clientInput("1111", "222222"), pdf("a"), s.owner)
	s.Require().NoError(err)

	_, err = s.svc.CreateClient(s.ctx, clientInput("1111", "222222"), pdf("b"), s.owner)
	s.ErrorIs(err, ErrPassportInUse)

	s.Require().NoError(s.repo.CreateWithHook(&models.Client{
		FirstName: "Shared", LastName: "Record", Sex: "female", Age: "40",
		PassportSeries: "5555", PassportNumber: "666666", Phone: "88005553537", UserID: 0,
	}, withoutDocument))
	_, err = s.svc.CreateClient(s.ctx, clientInput("5555", "666666"), pdf("c"), s.owner)
	s.ErrorIs(err, ErrPassportInUse)

	_, err = s.svc.CreateClient(s.ctx, clientInput("1111", "222222"), pdf("d"), 8)
	s.NoError(err, "other owners do not see the first record")
}

func (s *ClientServiceTestSuite) TestCreateClient_DocumentFailureRollsBack() {
	svc := NewClientService(s.repo, failingStore{}, false)

	_, err := svc.CreateClient(s.ctx, clientInput("1111", "222222"), pdf("a"), s.owner)
	s.ErrorIs(err, ErrDocumentWrite)

	inUse, err := svc.IsPassportInUse("1111", "222222", s.owner)
	s.Require().NoError(err)
	s.False(inUse, "the record is rolled back with the failed write")
}

func (s *ClientServiceTestSuite) TestIsPassportInUse() {
	_, err := s.svc.CreateClient(s.ctx, clientInput("1111", "222222"), pdf("a"), 9)
	s.Require().NoError(err)

	inUse, err := s.svc.IsPassportInUse("1111", "222222", 9)
	s.Require().NoError(err)
	s.True(inUse)

	inUse, err = s.svc.IsPassportInUse("1111", "222222", s.owner)
	s.Require().NoError(err)
	s.False(inUse)
}

func (s *ClientServiceTestSuite) TestListPage() {
	for i := 0; i < 16; i++ {
		_, err := s.svc.CreateClient(s.ctx, clientInput("1000", fmt.Sprintf("%06d", i)), pdf("x"), s.owner)
		s.Require().NoError(err)
	}

	first, err := s.svc.ListPage(0, s.owner)
	s.Require().NoError(err)
	s.Len(first.Content, 15)
	s.True(first.HasNext)

	second, err := s.svc.ListPage(1, s.owner)
	s.Require().NoError(err)
	s.Len(second.Content, 1)
	s.False(second.HasNext)
	s.True(second.HasPrevious)

	far, err := s.svc.ListPage(math.MaxInt, s.owner)
	s.Require().NoError(err)
	s.Empty(far.Content)
	s.True(far.HasPrevious)

	other, err := s.svc.ListPage(0, 8)
	s.Require().NoError(err)
	s.Empty(other.Content)
}

func (s *ClientServiceTestSuite) TestFindByNameAndPassport() {
	created, err := s.svc.CreateClient(s.ctx, clientInput("1111", "222222"), pdf("a"), s.owner)
	s.Require().NoError(err)

	byName, err := s.svc.FindByName("Ivan", "Petrov", s.owner)
	s.Require().NoError(err)
	s.Require().Len(byName.Content, 1)
	s.Equal(created.ClientID, byName.Content[0].ClientID)

	byPassport, err := s.svc.FindByPassport("1111", "222222", s.owner)
	s.Require().NoError(err)
	s.Len(byPassport.Content, 1)

	none, err := s.svc.FindByPassport("1111", "222222", 8)
	s.Require().NoError(err)
	s.Empty(none.Content)

	blank, err := s.svc.FindByName("", "", s.owner)
	s.Require().NoError(err)
	s.Empty(blank.Content)
}

func (s *ClientServiceTestSuite) TestDeleteClient_KeepsDocumentByDefault() {
	created, err := s.svc.CreateClient(s.ctx, clientInput("1111", "222222"), pdf("a"), s.owner)
	s.Require().NoError(err)

	s.ErrorIs(s.svc.DeleteClient(s.ctx, created.ClientID, 8), ErrClientNotFound)
	s.Require().NoError(s.svc.DeleteClient(s.ctx, created.ClientID, s.owner))

	found, err := s.svc.FindByPassport("1111", "222222", s.owner)
	s.Require().NoError(err)
	s.Empty(found.Content)

	exists, err := s.docs.Exists(s.ctx, created.ClientID)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *ClientServiceTestSuite) TestDeleteClient_PurgesDocumentWhenConfigured() {
	svc := NewClientService(s.repo, s.docs, true)
	created, err := svc.CreateClient(s.ctx, clientInput("1111", "222222"), pdf("a"), s.owner)
	s.Require().NoError(err)

	s.Require().NoError(svc.DeleteClient(s.ctx, created.ClientID, s.owner))

	exists, err := s.docs.Exists(s.ctx, created.ClientID)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ClientServiceTestSuite) TestOpenDocument_Errors() {
	_, _, err := s.svc.OpenDocument(s.ctx, 999, s.owner)
	s.ErrorIs(err, ErrClientNotFound)

	s.Require().NoError(s.repo.CreateWithHook(&models.Client{
		FirstName: "No", LastName: "Document", Sex: "male", Age: "50",
		PassportSeries: "7777", PassportNumber: "888888", Phone: "88005553538", UserID: s.owner,
	}, withoutDocument))
	found, err := s.svc.FindByPassport("7777", "888888", s.owner)
	s.Require().NoError(err)
	s.Require().Len(found.Content, 1)

	_, _, err = s.svc.OpenDocument(s.ctx, found.Content[0].ClientID, s.owner)
	s.ErrorIs(err, ErrDocumentNotFound)
}

func (s *ClientServiceTestSuite) TestDeleteAllOwnedBy() {
	_, err := s.svc.CreateClient(s.ctx, clientInput("1111", "000001"), pdf("a"), s.owner)
	s.Require().NoError(err)
	_, err = s.svc.CreateClient(s.ctx, clientInput("1111", "000002"), pdf("b"), s.owner)
	s.Require().NoError(err)
	_, err = s.svc.CreateClient(s.ctx, clientInput("1111", "000003"), pdf("c"), 8)
	s.Require().NoError(err)

	removed, err := s.svc.DeleteAllOwnedBy(s.owner)
	s.Require().NoError(err)
	s.EqualValues(2, removed)

	mine, err := s.svc.ListPage(0, s.owner)
	s.Require().NoError(err)
	s.Empty(mine.Content)

	theirs, err := s.svc.ListPage(0, 8)
	s.Require().NoError(err)
	s.Len(theirs.Content, 1)
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}
