package domain

import "time"

// User is the acting identity behind checkout/checkin requests. Identity
// management lives elsewhere; the engine only needs id-based lookups.
type User struct {
	ID        int32     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
