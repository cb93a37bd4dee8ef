package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the lifecycle queries rely on.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Sibling lookups on accept and the accepted-proposal probe
		{"proposals", "idx_proposals_task_status", "task_id, status"},

		// Transactions per task, newest first
		{"transactions", "idx_transactions_task_status", "task_id, status"},

		// Chat history in order
		{"messages", "idx_messages_task_created", "task_id, created_at"},

		// Unread inbox
		{"notifications", "idx_notifications_user_read", "user_id, is_read"},

		// Group membership by user
		{"group_members", "idx_group_members_user", "user_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
