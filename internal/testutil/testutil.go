// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/campus-works/internal/database"
	"github.com/yukikurage/campus-works/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database. A single connection keeps
// the memory database shared and serializes concurrent transactions.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with the given account ID.
func CreateUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()

	user := &models.User{
		ID:     id,
		Email:  id + "@campus.test",
		Name:   id,
		Year:   1,
		Skills: []string{},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTask inserts an OPEN task posted by posterID.
func CreateTask(t *testing.T, db *gorm.DB, posterID string) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:       "Lab report",
		Description: "Write up the week 3 lab",
		Category:    models.CategoryAssignment,
		BudgetMin:   500,
		BudgetMax:   1000,
		Deadline:    time.Now().Add(72 * time.Hour),
		PosterID:    posterID,
		Status:      models.TaskStatusOpen,
	}
	require.NoError(t, db.Omit("Poster", "Proposals").Create(task).Error)
	return task
}

// CreateProposal inserts a PENDING proposal.
func CreateProposal(t *testing.T, db *gorm.DB, taskID, bidderID string, amount int64) *models.Proposal {
	t.Helper()

	proposal := &models.Proposal{
		TaskID:   taskID,
		BidderID: bidderID,
		Amount:   amount,
		Text:     "I can do this",
		Status:   models.ProposalStatusPending,
	}
	require.NoError(t, db.Omit("Bidder").Create(proposal).Error)
	return proposal
}
