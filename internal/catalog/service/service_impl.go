package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shopkit/tradepost/internal/catalog/domain"
	"github.com/shopkit/tradepost/internal/catalog/repository"
	"github.com/shopkit/tradepost/internal/orgcontext"
	"github.com/shopkit/tradepost/pkg/db/option"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p serviceParams) domain.Service {
	return &service{
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	req.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
	req.Name = strings.TrimSpace(req.Name)
	if req.UOMSymbol == "" {
		req.UOMSymbol = "EA"
	}

	existing, err := s.repo.FindBySKU(ctx, orgID, req.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateSKU
	}

	var profileID *snowflake.ID
	if req.TaxProfileID != nil && strings.TrimSpace(*req.TaxProfileID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(*req.TaxProfileID))
		if err != nil {
			return nil, domain.ErrProductNotFound
		}
		profileID = &id
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:           s.genID.Generate(),
		OrgID:        orgID,
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		ListPrice:    req.ListPrice,
		UOMSymbol:    strings.TrimSpace(req.UOMSymbol),
		HSNCode:      req.HSNCode,
		IsSerialized: req.IsSerialized,
		IsLotted:     req.IsLotted,
		TaxProfileID: profileID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("org_id", orgID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)

	resp := toResponse(product)
	return &resp, nil
}

func (s *service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	var products []domain.Product
	var err error
	if strings.TrimSpace(req.Search) != "" {
		products, err = s.repo.Search(ctx, orgID, req.Search, req.ActiveOnly, 0)
	} else {
		opts := []option.QueryOption{
			option.WithSortBy(option.QuerySortBy{
				SortBy:  req.SortBy,
				OrderBy: req.OrderBy,
				Allow:   repository.SortableColumns(),
			}),
		}
		if req.ActiveOnly {
			opts = append(opts, option.WithCondition("is_active", option.EQ, true))
		}
		products, err = s.repo.Find(ctx, orgID, opts...)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(products))
	for i := range products {
		resp = append(resp, toResponse(&products[i]))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	productID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	product, err := s.repo.FindByID(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	resp := toResponse(product)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	productID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	product, err := s.repo.FindByID(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.ListPrice != nil {
		product.ListPrice = *req.ListPrice
	}
	if req.UOMSymbol != nil {
		product.UOMSymbol = strings.TrimSpace(*req.UOMSymbol)
	}
	if req.HSNCode != nil {
		product.HSNCode = req.HSNCode
	}
	if req.IsSerialized != nil {
		product.IsSerialized = *req.IsSerialized
	}
	if req.IsLotted != nil {
		product.IsLotted = *req.IsLotted
	}
	if req.TaxProfileID != nil {
		trimmed := strings.TrimSpace(*req.TaxProfileID)
		if trimmed == "" {
			product.TaxProfileID = nil
		} else {
			pid, err := snowflake.ParseString(trimmed)
			if err != nil {
				return nil, domain.ErrProductNotFound
			}
			product.TaxProfileID = &pid
		}
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.UpdatedAt = time.Now().UTC()

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	resp := toResponse(product)
	return &resp, nil
}

func (s *service) Archive(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}

	productID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrProductNotFound
	}

	product, err := s.repo.FindByID(ctx, orgID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	if !product.IsActive {
		return nil
	}

	product.IsActive = false
	product.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, product)
}

func toResponse(product *domain.Product) domain.Response {
	resp := domain.Response{
		ID:           product.ID.String(),
		SKU:          product.SKU,
		Name:         product.Name,
		Description:  product.Description,
		ListPrice:    product.ListPrice,
		UOMSymbol:    product.UOMSymbol,
		HSNCode:      product.HSNCode,
		IsSerialized: product.IsSerialized,
		IsLotted:     product.IsLotted,
		IsActive:     product.IsActive,
		CreatedAt:    product.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    product.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if product.TaxProfileID != nil {
		id := product.TaxProfileID.String()
		resp.TaxProfileID = &id
	}
	return resp
}
