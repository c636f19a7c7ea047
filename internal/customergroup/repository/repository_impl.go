package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/customergroup/domain"
	"github.com/shopkit/tradepost/pkg/db/option"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

var groupSortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

func SortableColumns() map[string]bool { return groupSortable }

func (r *repo) Create(ctx context.Context, group *domain.CustomerGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *repo) Update(ctx context.Context, group *domain.CustomerGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *repo) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.CustomerGroup, error) {
	var group domain.CustomerGroup
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repo) FindByName(ctx context.Context, orgID snowflake.ID, name string) (*domain.CustomerGroup, error) {
	var group domain.CustomerGroup
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND name = ?", orgID, name).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repo) Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]domain.CustomerGroup, error) {
	query := r.db.WithContext(ctx).Model(&domain.CustomerGroup{}).Where("org_id = ?", orgID)
	for _, opt := range opts {
		query = opt.Apply(query)
	}

	var groups []domain.CustomerGroup
	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
