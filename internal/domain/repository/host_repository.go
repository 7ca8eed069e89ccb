package repository

import (
	"context"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
)

// HostRepository 房东仓储接口
type HostRepository interface {
	// Save creates the host; a duplicate email yields an AlreadyExists error.
	Save(ctx context.Context, host *entity.Host) error
	FindByID(ctx context.Context, id string) (*entity.Host, error)
	FindByEmail(ctx context.Context, email string) (*entity.Host, error)
}
