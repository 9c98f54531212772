package client

import "time"

type Client struct {
	ID            int       `db:"id" json:"id"`
	FullName      string    `db:"full_name" json:"full_name"`
	PhoneNumber   string    `db:"phone_number" json:"phone_number"`
	MessengerLink *string   `db:"messenger_link" json:"messenger_link,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	FullName      string  `json:"full_name" binding:"required,min=3,max=150"`
	PhoneNumber   string  `json:"phone_number" binding:"required,phone" example:"+77011234567"`
	MessengerLink *string `json:"messenger_link,omitempty" binding:"omitempty,url,max=500"`
}

type UpdateRequest struct {
	FullName      *string `json:"full_name,omitempty" binding:"omitempty,min=3,max=150"`
	PhoneNumber   *string `json:"phone_number,omitempty" binding:"omitempty,phone"`
	MessengerLink *string `json:"messenger_link,omitempty" binding:"omitempty,url,max=500"`
}
