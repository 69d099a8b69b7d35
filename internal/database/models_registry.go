package database

import "github.com/namgiho96/giho-blog/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.PostStats{},
		&models.View{},
		&models.Like{},
		&models.Comment{},
	}
}
