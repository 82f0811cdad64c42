// Package seed provides helpers to create demo data for the blog database.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/auth"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password given to every seeded account.
const DefaultPassword = "Passw0rd!"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	faker  *gofakeit.Faker
	titles map[string]struct{}
	// hash is computed once since bcrypt dominates seeding time
	hash    string
	maxDays int
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	password := opts.Password
	if password == "" {
		password = DefaultPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = 365
	}
	return &Factory{
		db:      db,
		faker:   gofakeit.New(opts.RandSeed),
		titles:  map[string]struct{}{},
		hash:    hash,
		maxDays: maxDays,
	}, nil
}

// CreateUser persists an account with a Nigerian mobile number.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	user := &models.User{
		Name:     first + " " + last,
		Email:    strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, f.faker.Number(100, 99999))),
		Phone:    f.faker.Numerify("+23480########"),
		Password: f.hash,
	}
	for _, o := range overrides {
		o(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a post owned by author. Titles are kept unique.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	published := time.Now().AddDate(0, 0, -f.faker.Number(0, f.maxDays))
	post := &models.Post{
		Title:      f.uniqueTitle(),
		Subtitle:   f.faker.Sentence(8),
		Date:       models.FormatPostDate(published),
		Body:       f.body(),
		AuthorName: author.Name,
		ImageURL:   fmt.Sprintf("https://picsum.photos/seed/%s/1200/600", f.faker.UUID()),
		UserID:     author.ID,
	}
	for _, o := range overrides {
		o(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	f.titles[post.Title] = struct{}{}
	return post, nil
}

// CreateComment persists a comment by author on post.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:       "<p>" + f.faker.Sentence(f.faker.Number(6, 20)) + "</p>",
		AuthorName: author.Name,
		UserID:     author.ID,
		PostID:     post.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) uniqueTitle() string {
	for {
		title := strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 7)), ".")
		if _, taken := f.titles[title]; !taken {
			return title
		}
	}
}

func (f *Factory) body() string {
	var b strings.Builder
	for i := 0; i < f.faker.Number(2, 5); i++ {
		b.WriteString("<p>")
		b.WriteString(f.faker.Paragraph(1, f.faker.Number(3, 6), 12, " "))
		b.WriteString("</p>")
	}
	return b.String()
}
