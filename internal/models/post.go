package models

import "time"

// DateLayout is how a post's publication date is captured at creation time.
const DateLayout = "January 02, 2006"

// Post is a published article. Date is a display string fixed at creation;
// AuthorName is the byline and may be reassigned on edit while UserID keeps
// pointing at the account that created the post.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:250;uniqueIndex;not null" json:"title"`
	Subtitle   string    `gorm:"size:250;not null" json:"subtitle"`
	Date       string    `gorm:"size:250;not null" json:"date"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	AuthorName string    `gorm:"column:author;size:250;not null" json:"author"`
	ImageURL   string    `gorm:"column:img_url;size:250;not null" json:"img_url"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	Comments   []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FormatPostDate renders t in the post date layout.
func FormatPostDate(t time.Time) string {
	return t.Format(DateLayout)
}
