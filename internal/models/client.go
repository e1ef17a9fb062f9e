package models

// Client is a managed person record. UserID 0 marks a record shared with all users.
type Client struct {
	ClientID       uint64 `gorm:"primarykey;column:client_id" json:"client_id"`
	FirstName      string `gorm:"type:varchar(20);not null" json:"first_name"`
	LastName       string `gorm:"type:varchar(20);not null" json:"last_name"`
	Sex            string `gorm:"type:varchar(10);not null" json:"sex"`
	Age            string `gorm:"type:varchar(2);not null" json:"age"`
	PassportSeries string `gorm:"type:varchar(4);not null;uniqueIndex:idx_clients_owner_passport,priority:2" json:"passport_series"`
	PassportNumber string `gorm:"type:varchar(6);not null;uniqueIndex:idx_clients_owner_passport,priority:3" json:"passport_number"`
	Phone          string `gorm:"type:varchar(11);not null" json:"phone"`
	UserID         uint64 `gorm:"not null;uniqueIndex:idx_clients_owner_passport,priority:1" json:"user_id"`
}

// IsShared reports whether the record is visible to every user.
func (c Client) IsShared() bool {
	return c.UserID == 0
}
