package user

import (
	"time"

	"ledgerpay/internal/domain"
)

type CreateUserRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      domain.Role
}

// View is the public shape of a user. It never carries the password hash.
type View struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Phone     string      `json:"phone,omitempty"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewView(u *domain.User) *View {
	return &View{
		ID:        u.ID(),
		Email:     u.Email(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		Phone:     u.Phone(),
		Role:      u.Role(),
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
	}
}
