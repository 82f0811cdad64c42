// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/mandeell/Mandel-Blog-Complete/internal/database"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens an isolated in-memory SQLite database with the blog tables migrated.
// A single connection keeps every query on the same in-memory database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         database.NewGormLogger(),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// CreateUser inserts an account with a bcrypt-hashed password. MinCost keeps tests fast.
func CreateUser(t *testing.T, db *gorm.DB, email, password string, agent, admin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     strings.Split(email, "@")[0],
		Phone:    "08012345678",
		Agent:    agent,
		Admin:    admin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post owned by author.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:      title,
		Subtitle:   title + " subtitle",
		Date:       "March 05, 2024",
		Body:       "<p>" + title + " body</p>",
		AuthorName: author.Name,
		ImageURL:   "https://example.com/" + strings.ReplaceAll(strings.ToLower(title), " ", "-") + ".jpg",
		UserID:     author.ID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// CreateComment inserts a comment by author on post.
func CreateComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, text string) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		Text:       text,
		AuthorName: author.Name,
		UserID:     author.ID,
		PostID:     post.ID,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
