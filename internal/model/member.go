package model

import (
	"fmt"
	"time"
)

// Member is a household participant identified by their Telegram user id.
// Members are created inactive on first contact and activated by the admin.
type Member struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName renders the member for admin-facing lists: first name, last
// name when present, and the @handle when present.
func (m Member) DisplayName() string {
	name := m.FirstName
	if m.LastName != "" {
		name = fmt.Sprintf("%s %s", m.FirstName, m.LastName)
	}
	if m.Username != "" {
		name += fmt.Sprintf(" (@%s)", m.Username)
	}
	return name
}
