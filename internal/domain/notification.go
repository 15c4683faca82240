package domain

import "time"

type Notification struct {
	ID              int32     `json:"id"`
	Message         string    `json:"message"`
	RecipientUserID int32     `json:"recipient_user_id"`
	IsRead          bool      `json:"is_read"`
	CreatedAt       time.Time `json:"created_at"`
}
