package entity

import "time"

// User is a dashboard operator
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"nombre"`
	Role          string    `json:"role"`
	PasswordHash  string    `json:"-"`
	Notifications bool      `json:"notificaciones"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
