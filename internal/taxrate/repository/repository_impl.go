package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/taxrate/domain"
	"github.com/shopkit/tradepost/pkg/db/option"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

var taxRateSortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"rate":       true,
}

func (r *repo) Create(ctx context.Context, rate *domain.TaxRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repo) Update(ctx context.Context, rate *domain.TaxRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

func (r *repo) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.TaxRate, error) {
	var rate domain.TaxRate
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repo) FindByName(ctx context.Context, orgID snowflake.ID, name string) (*domain.TaxRate, error) {
	var rate domain.TaxRate
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND name = ?", orgID, name).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repo) Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]domain.TaxRate, error) {
	query := r.db.WithContext(ctx).Model(&domain.TaxRate{}).Where("org_id = ?", orgID)
	for _, opt := range opts {
		query = opt.Apply(query)
	}

	var rates []domain.TaxRate
	if err := query.Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repo) FindByIDs(ctx context.Context, orgID snowflake.ID, ids []snowflake.ID) ([]domain.TaxRate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rates []domain.TaxRate
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id IN ?", orgID, ids).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// SortableColumns exposes the allow-list for query option construction.
func SortableColumns() map[string]bool { return taxRateSortable }
