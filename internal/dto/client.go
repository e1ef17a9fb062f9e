package dto

import (
	"github.com/gazer/client-registry/internal/models"
	"github.com/gazer/client-registry/internal/utils"
)

// ClientDTO represents a client record in view models
type ClientDTO struct {
	ClientID       uint64 `json:"client_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Sex            string `json:"sex"`
	Age            string `json:"age"`
	PassportSeries string `json:"passport_series"`
	PassportNumber string `json:"passport_number"`
	Phone          string `json:"phone"`
	UserID         uint64 `json:"user_id"`
	Shared         bool   `json:"shared"`
}

// ToClientDTO converts models.Client to ClientDTO
func ToClientDTO(client models.Client) ClientDTO {
	return ClientDTO{
		ClientID:       client.ClientID,
		FirstName:      client.FirstName,
		LastName:       client.LastName,
		Sex:            client.Sex,
		Age:            client.Age,
		PassportSeries: client.PassportSeries,
		PassportNumber: client.PassportNumber,
		Phone:          client.Phone,
		UserID:         client.UserID,
		Shared:         client.IsShared(),
	}
}

// ToClientDTOs converts a slice of clients, never returning nil
func ToClientDTOs(clients []models.Client) []ClientDTO {
	dtos := make([]ClientDTO, len(clients))
	for i, client := range clients {
		dtos[i] = ToClientDTO(client)
	}
	return dtos
}

// ClientsPageView is the model of the clients listing.
// Back is set on search results, which carry no page navigation.
type ClientsPageView struct {
	User        *UserDTO    `json:"user"`
	Clients     []ClientDTO `json:"clients"`
	HasNext     bool        `json:"hasNext"`
	HasPrevious bool        `json:"hasPrevious"`
	CurrentPage *int        `json:"currentPage,omitempty"`
	Back        bool        `json:"back"`
}

// NewClientsPage builds the paginated listing view
func NewClientsPage(user *models.User, slice utils.Slice[models.Client]) ClientsPageView {
	page := slice.Number
	return ClientsPageView{
		User:        ToUserDTOPtr(user),
		Clients:     ToClientDTOs(slice.Content),
		HasNext:     slice.HasNext,
		HasPrevious: slice.HasPrevious,
		CurrentPage: &page,
	}
}

// NewSearchResults builds the listing view for a search
func NewSearchResults(user *models.User, slice utils.Slice[models.Client]) ClientsPageView {
	return ClientsPageView{
		User:    ToUserDTOPtr(user),
		Clients: ToClientDTOs(slice.Content),
		Back:    true,
	}
}
