package entities

import "time"

// User represents a registered account.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"` // stored lowercased, unique
	HashedPassword string    `json:"-"`
	FullName       string    `json:"full_name"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewUser(email, hashedPassword, fullName string) *User {
	return &User{
		Email:          email,
		HashedPassword: hashedPassword,
		FullName:       fullName,
		IsActive:       true,
	}
}
