package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds lookup indexes that the model tags do not express
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Prompt listing filtered by category
		{"prompts", "idx_prompts_project_category", "project_id, category"},

		// Member listing and role checks
		{"project_members", "idx_project_members_project_role", "project_id, role"},

		// Version history by author
		{"prompt_versions", "idx_prompt_versions_author_id", "author_id"},

		// Key listing per owner
		{"api_keys", "idx_api_keys_user_active", "user_id, is_active"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index", zap.String("index", idx.name), zap.String("table", idx.table), zap.String("columns", idx.columns))
	}

	return nil
}
