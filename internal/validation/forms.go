package validation

import "strings"

// RegisterForm is the account registration form. Agent and Admin are read from
// checkboxes by the handler and only honored for admin actors.
type RegisterForm struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Phone           string `form:"phone" validate:"required,ngphone"`
	Password        string `form:"password" validate:"required,min=8,strongpassword"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
	Agent           bool   `form:"-"`
	Admin           bool   `form:"-"`
}

func (f *RegisterForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
}

// LoginForm carries credentials; no strength rule applies on login.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func (f *LoginForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

// PostForm is shared by create and edit. Author is the byline.
type PostForm struct {
	Title    string `form:"title" validate:"required"`
	Subtitle string `form:"subtitle" validate:"required"`
	Author   string `form:"author" validate:"required"`
	ImageURL string `form:"img_url" validate:"required,http_url"`
	Body     string `form:"body" validate:"required"`
}

func (f *PostForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.Author = strings.TrimSpace(f.Author)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.Body = strings.TrimSpace(f.Body)
}

type ContactForm struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email"`
	Phone   string `form:"phone" validate:"required,ngphone"`
	Message string `form:"message" validate:"required"`
}

func (f *ContactForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Message = strings.TrimSpace(f.Message)
}

type CommentForm struct {
	Text string `form:"comment_text" validate:"required"`
}

func (f *CommentForm) Normalize() {
	f.Text = strings.TrimSpace(f.Text)
}
