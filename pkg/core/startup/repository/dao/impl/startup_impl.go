package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/core/startup/model"
	"startup-directory/pkg/core/startup/repository/dao"
)

var ErrStartupNotFound = apperr.NotFound("no startup of this id")

var (
	summaryColumns   = []string{"id", "name", "industry", "stage", "business_model", "founded_date"}
	dashboardColumns = []string{"id", "name", "founded_date", "cover_image_data", "cover_image_content_type", "cover_image_file_name"}
)

type GormStartupRepository struct {
	db *gorm.DB
}

var _ dao.StartupRepository = (*GormStartupRepository)(nil)

func NewGormStartupRepository(db *gorm.DB) *GormStartupRepository {
	return &GormStartupRepository{db: db}
}

func (r *GormStartupRepository) Create(ctx context.Context, startup *model.Startup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(startup).Error; err != nil {
			return wrap("startup creation failed", err)
		}
		return nil
	})
}

func (r *GormStartupRepository) QueryByID(ctx context.Context, id string) (model.Startup, error) {
	var startup model.Startup
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&startup).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Startup{}, ErrStartupNotFound
	case err != nil:
		return model.Startup{}, wrap("startup query failed", err)
	default:
		return startup, nil
	}
}

// Save writes every column of startup over the stored row. Concurrent saves
// of the same row are last-write-wins.
func (r *GormStartupRepository) Save(ctx context.Context, startup *model.Startup) error {
	result := r.db.WithContext(ctx).
		Model(startup).
		Select("*").
		Omit("id", "created_at").
		Where("id = ?", startup.ID).
		Updates(startup)
	if result.Error != nil {
		return wrap("startup update failed", result.Error)
	}
	if result.RowsAffected == 0 {
		// MySQL reports 0 rows for identical values too; tell the cases apart.
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Startup{}).Where("id = ?", startup.ID).Count(&count).Error; err != nil {
			return wrap("startup update failed", err)
		}
		if count == 0 {
			return ErrStartupNotFound
		}
	}
	return nil
}

func (r *GormStartupRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Startup{})
	if result.Error != nil {
		return wrap("startup delete failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStartupNotFound
	}
	return nil
}

func (r *GormStartupRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Summary, error) {
	summaries := []model.Summary{}
	err := r.db.WithContext(ctx).
		Model(&model.Startup{}).
		Select(summaryColumns).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&summaries).Error
	if err != nil {
		return nil, wrap("startup listing failed", err)
	}
	return summaries, nil
}

func (r *GormStartupRepository) ListDashboard(ctx context.Context) ([]model.DashboardCard, error) {
	cards := []model.DashboardCard{}
	err := r.db.WithContext(ctx).
		Model(&model.Startup{}).
		Select(dashboardColumns).
		Order("created_at").
		Find(&cards).Error
	if err != nil {
		return nil, wrap("dashboard listing failed", err)
	}
	return cards, nil
}

// wrap keeps conflicts unadorned so the boundary can name the field.
func wrap(op string, err error) error {
	wrapped := apperr.WrapGormError(err)
	if apperr.IsDuplicateError(err) {
		return wrapped
	}
	return fmt.Errorf("%s: %w", op, wrapped)
}
