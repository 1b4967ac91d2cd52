package entities

import "time"

// User is the owning account for imports. Account management beyond
// creation lives elsewhere; this service only needs the row as a foreign
// key target.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
