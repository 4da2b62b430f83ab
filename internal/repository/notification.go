package repository

import (
	"context"

	"quill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListForUser(ctx context.Context, userID uint, unseenOnly bool, limit, offset int) ([]*models.Notification, error)
	MarkSeen(ctx context.Context, userID uint, ids ...uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns a new NotificationRepository implementation.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func createNotification(tx *gorm.DB, n *models.Notification) error {
	if n == nil {
		return nil
	}
	return TranslateError("Notification", nil, tx.Omit(clause.Associations).Create(n).Error)
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return createNotification(r.db.WithContext(ctx), notification)
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).Preload("Post").First(&n, id).Error; err != nil {
		return nil, TranslateError("Notification", id, err)
	}
	return &n, nil
}

// ListForUser returns a user's notifications with their posts, newest first.
func (r *notificationRepository) ListForUser(ctx context.Context, userID uint, unseenOnly bool, limit, offset int) ([]*models.Notification, error) {
	limit, offset = normalizePage(limit, offset)
	q := r.db.WithContext(ctx).Preload("Post").Where("user_id = ?", userID)
	if unseenOnly {
		q = q.Where("seen = ?", false)
	}
	var list []*models.Notification
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, TranslateError("Notification", nil, err)
	}
	return list, nil
}

// MarkSeen flags the given notifications of userID as seen; no ids means all
// of them. It returns the number of rows changed.
func (r *notificationRepository) MarkSeen(ctx context.Context, userID uint, ids ...uint) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ? AND seen = ?", userID, false)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	res := q.UpdateColumn("seen", true)
	if res.Error != nil {
		return 0, TranslateError("Notification", nil, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return TranslateError("Notification", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}
