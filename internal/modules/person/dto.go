package person

import (
	"time"

	"github.com/daybook-app/core/internal/models"
)

// CreatePersonDTO is the request body for creating a person.
type CreatePersonDTO struct {
	Name     string  `json:"name"    binding:"required"`
	Surname  string  `json:"surname" binding:"required"`
	Nickname *string `json:"nickname"`
}

// UpdatePersonDTO is the request body for a partial update.
type UpdatePersonDTO struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Nickname *string `json:"nickname"`
}

type personResponse struct {
	ID       uint       `json:"id"`
	Name     string     `json:"name"`
	Surname  string     `json:"surname"`
	Nickname *string    `json:"nickname"`
	Created  time.Time  `json:"created"`
	Modified *time.Time `json:"modified"`
}

func toResponse(p *models.PersonModel) personResponse {
	var modified *time.Time
	if !p.UpdatedAt.IsZero() && p.UpdatedAt.After(p.CreatedAt) {
		modifiedAt := p.UpdatedAt
		modified = &modifiedAt
	}
	return personResponse{
		ID:       p.ID,
		Name:     p.Name,
		Surname:  p.Surname,
		Nickname: p.Nickname,
		Created:  p.CreatedAt,
		Modified: modified,
	}
}
