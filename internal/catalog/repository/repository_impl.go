package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/catalog/domain"
	"github.com/shopkit/tradepost/pkg/db/option"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

var productSortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"sku":        true,
	"list_price": true,
}

func SortableColumns() map[string]bool { return productSortable }

func (r *repo) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repo) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *repo) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) FindBySKU(ctx context.Context, orgID snowflake.ID, sku string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND sku = ?", orgID, sku).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{}).Where("org_id = ?", orgID)
	for _, opt := range opts {
		query = opt.Apply(query)
	}

	var products []domain.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) Search(ctx context.Context, orgID snowflake.ID, term string, activeOnly bool, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}

	query := r.db.WithContext(ctx).Model(&domain.Product{}).Where("org_id = ?", orgID)
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var products []domain.Product
	err := query.Order("name asc, id asc").Limit(limit).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
