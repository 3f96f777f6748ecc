package domain

import "time"

// Sales is a sales staff account. It is the persisted source of token claims.
type Sales struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Department   string
	Position     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
