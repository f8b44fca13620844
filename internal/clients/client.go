package clients

import (
	"strings"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Client struct {
	ID         int        `json:"id"`
	BusinessID int        `json:"businessId"`
	Name       string     `json:"name" validate:"required,max=200"`
	Email      string     `json:"email,omitempty" validate:"omitempty,email,max=320"`
	Phone      string     `json:"phone,omitempty" validate:"omitempty,max=40"`
	BirthDate  *time.Time `json:"birthDate,omitempty"`
	Sport      string     `json:"sport,omitempty" validate:"omitempty,max=100"`
	// body mass in kg, used by relative strength and VO2 numbers
	WeightKg  *float64  `json:"weightKg,omitempty" validate:"omitempty,gt=0,lt=400"`
	HeightCm  *float64  `json:"heightCm,omitempty" validate:"omitempty,gt=0,lt=300"`
	Notes     string    `json:"notes,omitempty" validate:"max=5000"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Client) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Sport = strings.TrimSpace(c.Sport)
}

type ListParams struct {
	BusinessID int
	Page       int
	Size       int
	Query      string
	// OnlyClientID restricts the list to one client, for athletes
	OnlyClientID *int
}

type ListResponse struct {
	Clients []*Client `json:"clients"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	Size    int       `json:"size"`
}
