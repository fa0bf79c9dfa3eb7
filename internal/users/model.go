package users

import (
	"time"

	"groundwater-backend/internal/shared/auth"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the public view of a user returned by the auth endpoints.
type Profile struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Role     auth.Role `json:"role"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}
