package models

import (
	"time"

	"ledgerpay/internal/domain"
)

type User struct {
	ID           uint   `gorm:"primarykey"`
	Email        string `gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	PasswordHash string `gorm:"not null"`
	FirstName    string `gorm:"size:100;not null"`
	LastName     string `gorm:"size:100;not null"`
	Phone        string `gorm:"size:32"`
	Role         string `gorm:"size:16;not null;default:'user'"`
	IsActive     bool   `gorm:"not null;default:true"`
	TokenVersion int    `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func UserFromDomain(u *domain.User) *User {
	s := u.State()
	return &User{
		ID:           s.ID,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Phone:        s.Phone,
		Role:         string(s.Role),
		IsActive:     s.IsActive,
		TokenVersion: s.TokenVersion,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *User) ToDomain() *domain.User {
	return domain.RestoreUser(domain.UserState{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		TokenVersion: m.TokenVersion,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	})
}
