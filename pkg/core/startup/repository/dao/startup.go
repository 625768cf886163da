package dao

import (
	"context"

	"startup-directory/pkg/core/startup/model"
)

// StartupRepository is the Resource Store. Not-found conditions are
// reported as apperr NotFound, duplicate names as apperr Conflict.
type StartupRepository interface {
	Create(ctx context.Context, startup *model.Startup) error
	QueryByID(ctx context.Context, id string) (model.Startup, error)
	Save(ctx context.Context, startup *model.Startup) error // full replacement
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Summary, error)
	ListDashboard(ctx context.Context) ([]model.DashboardCard, error)
}
