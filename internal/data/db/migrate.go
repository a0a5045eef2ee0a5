package db

import (
	"fmt"

	"github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"gorm.io/gorm"
)

// Partial unique indexes GORM tags cannot express portably. Quote scoped make
// methods all carry version 1 for their item, so both only cover item scope.
var makeMethodIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_make_method_item_version
		ON make_method (item_id, scope, version) WHERE scope = 'item'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_make_method_item_active
		ON make_method (item_id) WHERE scope = 'item' AND status = 'Active'`,
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(manufacturing.Models()...); err != nil {
		return err
	}
	for _, stmt := range makeMethodIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create make method index: %w", err)
		}
	}
	return nil
}
