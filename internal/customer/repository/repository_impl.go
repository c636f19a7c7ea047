package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/customer/domain"
	"github.com/shopkit/tradepost/pkg/db/option"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

var customerSortable = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"display_name": true,
}

func SortableColumns() map[string]bool { return customerSortable }

func (r *repo) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repo) BatchCreate(ctx context.Context, customers []domain.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(customers, 100).Error
}

func (r *repo) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *repo) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repo) Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]domain.Customer, error) {
	query := r.db.WithContext(ctx).Model(&domain.Customer{}).Where("org_id = ?", orgID)
	for _, opt := range opts {
		query = opt.Apply(query)
	}

	var customers []domain.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) Search(ctx context.Context, orgID snowflake.ID, term string, activeOnly bool, limit int) ([]domain.Customer, error) {
	if limit <= 0 {
		limit = 20
	}

	query := r.db.WithContext(ctx).Model(&domain.Customer{}).Where("org_id = ?", orgID)
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(display_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var customers []domain.Customer
	err := query.Order("display_name asc, id asc").Limit(limit).Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) CreateContact(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *repo) UpdateContact(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *repo) DeleteContact(ctx context.Context, orgID, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.Contact{}).Error
}

func (r *repo) FindContactByID(ctx context.Context, orgID, id snowflake.ID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *repo) FindContacts(ctx context.Context, orgID, customerID snowflake.ID) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND customer_id = ?", orgID, customerID).
		Order("is_primary desc, created_at asc, id asc").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *repo) ClearPrimaryContact(ctx context.Context, orgID, customerID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Contact{}).
		Where("org_id = ? AND customer_id = ? AND is_primary = ?", orgID, customerID, true).
		Update("is_primary", false).Error
}

func (r *repo) CreateAddress(ctx context.Context, address *domain.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *repo) UpdateAddress(ctx context.Context, address *domain.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *repo) DeleteAddress(ctx context.Context, orgID, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.Address{}).Error
}

func (r *repo) FindAddressByID(ctx context.Context, orgID, id snowflake.ID) (*domain.Address, error) {
	var address domain.Address
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repo) FindAddresses(ctx context.Context, orgID, customerID snowflake.ID) ([]domain.Address, error) {
	var addresses []domain.Address
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND customer_id = ?", orgID, customerID).
		Order("kind asc, is_default desc, created_at asc").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *repo) ClearDefaultAddress(ctx context.Context, orgID, customerID snowflake.ID, kind string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Address{}).
		Where("org_id = ? AND customer_id = ? AND kind = ? AND is_default = ?", orgID, customerID, kind, true).
		Update("is_default", false).Error
}
