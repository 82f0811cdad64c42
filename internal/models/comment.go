package models

import "time"

// Comment is a reply to a post.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	AuthorName string    `gorm:"size:250;not null" json:"author_name"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	CreatedAt  time.Time `json:"created_at"`
}
