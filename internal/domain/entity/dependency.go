package entity

import "time"

// Dependency is an organizational unit (secretaría, dirección, división)
type Dependency struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nombre"`
	Code        string    `json:"codigo"`
	Secretariat string    `json:"secretaria"`
	ParentID    *int64    `json:"parentId,omitempty"`
	Active      bool      `json:"activa"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
