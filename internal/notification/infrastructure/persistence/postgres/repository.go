package postgres

import (
	"context"

	"github.com/floresya/floresya/internal/notification/domain"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *NotificationRepository) ListByOrder(ctx context.Context, orderNumber string) ([]*domain.Notification, error) {
	var list []*domain.Notification
	err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		Order("id").
		Find(&list).Error
	return list, err
}
