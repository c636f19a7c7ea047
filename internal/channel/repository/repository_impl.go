package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/channel/domain"
	"github.com/shopkit/tradepost/pkg/db/option"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

var channelSortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"code":       true,
}

func SortableColumns() map[string]bool { return channelSortable }

func (r *repo) Create(ctx context.Context, channel *domain.Channel) error {
	return r.db.WithContext(ctx).Create(channel).Error
}

func (r *repo) Update(ctx context.Context, channel *domain.Channel) error {
	return r.db.WithContext(ctx).Save(channel).Error
}

func (r *repo) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.Channel, error) {
	var channel domain.Channel
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&channel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *repo) FindByCode(ctx context.Context, orgID snowflake.ID, code string) (*domain.Channel, error) {
	var channel domain.Channel
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND code = ?", orgID, code).
		First(&channel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *repo) Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]domain.Channel, error) {
	query := r.db.WithContext(ctx).Model(&domain.Channel{}).Where("org_id = ?", orgID)
	for _, opt := range opts {
		query = opt.Apply(query)
	}

	var channels []domain.Channel
	if err := query.Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}
