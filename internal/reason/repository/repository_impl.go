package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/reason/domain"
	"github.com/shopkit/tradepost/pkg/db/option"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

var reasonSortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

func SortableColumns() map[string]bool { return reasonSortable }

func (r *repo) Create(ctx context.Context, reason *domain.Reason) error {
	return r.db.WithContext(ctx).Create(reason).Error
}

func (r *repo) Update(ctx context.Context, reason *domain.Reason) error {
	return r.db.WithContext(ctx).Save(reason).Error
}

func (r *repo) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.Reason, error) {
	var reason domain.Reason
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&reason).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reason, nil
}

func (r *repo) FindByName(ctx context.Context, orgID snowflake.ID, name string) (*domain.Reason, error) {
	var reason domain.Reason
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND name = ?", orgID, name).
		First(&reason).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reason, nil
}

func (r *repo) Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]domain.Reason, error) {
	query := r.db.WithContext(ctx).Model(&domain.Reason{}).Where("org_id = ?", orgID)
	for _, opt := range opts {
		query = opt.Apply(query)
	}

	var reasons []domain.Reason
	if err := query.Find(&reasons).Error; err != nil {
		return nil, err
	}
	return reasons, nil
}
