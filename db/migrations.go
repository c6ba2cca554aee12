package db

import (
	"fmt"

	"gorm.io/gorm"
)

// EnsureFollowUniqueIndex добавляет уникальный индекс подписок на базах,
// созданных до того, как он появился в модели. AutoMigrate существующий
// индекс не пересоздает.
func EnsureFollowUniqueIndex(db *gorm.DB) error {
	createIndexSQL := `
		CREATE UNIQUE INDEX IF NOT EXISTS follow_user_author_key
		ON follows (user_id, author_id);
	`
	if err := db.Exec(createIndexSQL).Error; err != nil {
		return fmt.Errorf("failed to create follow unique index: %w", err)
	}
	return nil
}
