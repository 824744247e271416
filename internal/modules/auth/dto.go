package auth

import (
	"time"

	"github.com/daybook-app/core/internal/models"
)

// SignupDTO is the request body for account creation. Signup is only
// served when enabled in config.
type SignupDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

// LoginDTO is the request body for password login.
type LoginDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	LastLogin *time.Time `json:"lastLogin"`
	Created   time.Time  `json:"created"`
}

func toResponse(u *models.UserModel) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		LastLogin: u.LastLogin,
		Created:   u.CreatedAt,
	}
}
