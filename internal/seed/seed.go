package seed

import (
	"errors"
	"log"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"

	"gorm.io/gorm"
)

// Options configures seeding.
type Options struct {
	Users    int
	Posts    int
	Comments int
	Clean    bool
	Password string
	// MaxDays bounds how far back post dates are spread.
	MaxDays int
	// RandSeed makes runs reproducible when non-zero.
	RandSeed int64
}

// Result reports what a seeding run created.
type Result struct {
	Users    []models.User
	Posts    []models.Post
	Comments int
}

// Seed populates the database with demo data. Every third user is an agent,
// and the first user is always one so posts have an owner.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	log.Printf("🌱 Seeding %d users, %d posts, %d comments...", opts.Users, opts.Posts, opts.Comments)

	if opts.Posts > 0 && opts.Users == 0 {
		return nil, errors.New("seed: posts need at least one user")
	}
	if opts.Clean {
		if err := clearData(db); err != nil {
			return nil, err
		}
	}

	f, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var agents []models.User
	for i := 0; i < opts.Users; i++ {
		agent := i%3 == 0
		user, err := f.CreateUser(func(u *models.User) { u.Agent = agent })
		if err != nil {
			return nil, err
		}
		res.Users = append(res.Users, *user)
		if agent {
			agents = append(agents, *user)
		}
	}
	log.Printf("✓ %d users created (%d agents)", len(res.Users), len(agents))

	for i := 0; i < opts.Posts; i++ {
		post, err := f.CreatePost(&agents[i%len(agents)])
		if err != nil {
			return nil, err
		}
		res.Posts = append(res.Posts, *post)
	}
	log.Printf("✓ %d posts created", len(res.Posts))

	if len(res.Posts) > 0 {
		for i := 0; i < opts.Comments; i++ {
			author := &res.Users[f.faker.Number(0, len(res.Users)-1)]
			post := &res.Posts[f.faker.Number(0, len(res.Posts)-1)]
			if _, err := f.CreateComment(author, post); err != nil {
				return nil, err
			}
			res.Comments++
		}
	}
	log.Printf("✓ %d comments created", res.Comments)

	log.Println("🎉 Database seeding completed successfully!")
	return res, nil
}

// clearData removes rows child-first so it works on any dialect.
func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	return db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped()
		for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
