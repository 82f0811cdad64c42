// Package models contains data structures for the blog's domain models.
package models

import "time"

// User is a registered account. Agent and Admin are independent permission
// flags: guards check exactly one of them and admin does not imply agent.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:200;not null" json:"-"`
	Name      string    `gorm:"size:1000;not null" json:"name"`
	Phone     string    `gorm:"size:32;not null" json:"phone"`
	Agent     bool      `gorm:"not null;default:false" json:"agent"`
	Admin     bool      `gorm:"not null;default:false" json:"admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// Role names one of the account permission flags.
type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAgent || r == RoleAdmin
}
