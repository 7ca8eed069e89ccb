package repository

import (
	"context"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
)

// IssueRepository 问题仓储接口
type IssueRepository interface {
	Save(ctx context.Context, issue *entity.Issue) error
	// FindByProperty lists issues newest first.
	FindByProperty(ctx context.Context, propertyID string) ([]*entity.Issue, error)
	CountByProperty(ctx context.Context, propertyID string) (int64, error)
}

// NotificationRepository 通知仓储接口
type NotificationRepository interface {
	Save(ctx context.Context, notification *entity.Notification) error
	// FindByHost lists notifications newest first.
	FindByHost(ctx context.Context, hostID string) ([]*entity.Notification, error)
	// MarkRead flags one notification as read. A notification owned by
	// another host is reported as not found.
	MarkRead(ctx context.Context, hostID, id string) error
}
