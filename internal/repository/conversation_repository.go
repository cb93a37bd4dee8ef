package repository

import (
	"context"

	"github.com/yukikurage/campus-works/internal/database"
	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *GormCommentRepository) ListByTask(ctx context.Context, taskID string, params utils.PaginationParams) ([]models.Comment, int64, error) {
	var comments []models.Comment
	query := r.db.WithContext(ctx).Model(&models.Comment{}).Where("task_id = ?", taskID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("User").
		Order("created_at ASC").
		Scopes(database.Paginate(params)).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error
}

func (r *GormMessageRepository) ListByTask(ctx context.Context, taskID string, params utils.PaginationParams) ([]models.Message, int64, error) {
	var messages []models.Message
	query := r.db.WithContext(ctx).Model(&models.Message{}).Where("task_id = ?", taskID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Sender").
		Order("created_at ASC").
		Scopes(database.Paginate(params)).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}
