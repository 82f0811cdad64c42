package database

import "github.com/mandeell/Mandel-Blog-Complete/internal/models"

// PersistentModels lists the tables AutoMigrate owns, parents before children
// so foreign keys resolve on SQLite.
func PersistentModels() []any {
	return []any{&models.User{}, &models.Post{}, &models.Comment{}}
}
