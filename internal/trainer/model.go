package trainer

import "time"

type Trainer struct {
	ID             int       `db:"id" json:"id"`
	FullName       string    `db:"full_name" json:"full_name"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	PhoneNumber    *string   `db:"phone_number" json:"phone_number,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	FullName       string  `json:"full_name" binding:"required,min=3,max=150"`
	Specialization *string `json:"specialization,omitempty" binding:"omitempty,max=100"`
	PhoneNumber    *string `json:"phone_number,omitempty" binding:"omitempty,phone"`
}

type UpdateRequest struct {
	FullName       *string `json:"full_name,omitempty" binding:"omitempty,min=3,max=150"`
	Specialization *string `json:"specialization,omitempty" binding:"omitempty,max=100"`
	PhoneNumber    *string `json:"phone_number,omitempty" binding:"omitempty,phone"`
	IsActive       *bool   `json:"is_active,omitempty"`
}
