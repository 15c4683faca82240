package domain

import "time"

type Technician struct {
	ID         int32     `json:"id"`
	Badge      string    `json:"badge"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email,omitempty"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (t *Technician) FullName() string {
	return t.FirstName + " " + t.LastName
}
