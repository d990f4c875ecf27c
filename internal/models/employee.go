package models

import "github.com/google/uuid"

// Employee is a staff record managed through the employee CRUD endpoints.
type Employee struct {
	BaseModel
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex;size:254" json:"email"`
	Position  string    `json:"position,omitempty"`
	CreatedBy uuid.UUID `gorm:"type:uuid" json:"created_by"`
}
