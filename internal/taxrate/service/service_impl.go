package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shopkit/tradepost/internal/orgcontext"
	"github.com/shopkit/tradepost/internal/taxrate/domain"
	"github.com/shopkit/tradepost/internal/taxrate/repository"
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
		log:   p.Log.Named("taxrate.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	req.Name = strings.TrimSpace(req.Name)
	req.TaxType = strings.ToUpper(strings.TrimSpace(req.TaxType))

	existing, err := s.repo.FindByName(ctx, orgID, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}

	now := time.Now().UTC()
	rate := &domain.TaxRate{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        req.Name,
		TaxType:     req.TaxType,
		Rate:        req.Rate,
		Description: req.Description,
		IsEnabled:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := rate.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rate); err != nil {
		return nil, err
	}

	s.log.Info("tax rate created",
		zap.String("org_id", orgID.String()),
		zap.String("tax_rate_id", rate.ID.String()),
		zap.String("tax_type", rate.TaxType),
	)

	resp := toResponse(rate)
	return &resp, nil
}

func (s *service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			SortBy:  req.SortBy,
			OrderBy: req.OrderBy,
			Allow:   repository.SortableColumns(),
		}),
	}
	if req.EnabledOnly {
		opts = append(opts, option.WithCondition("is_enabled", option.EQ, true))
	}

	rates, err := s.repo.Find(ctx, orgID, opts...)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(rates))
	for i := range rates {
		resp = append(resp, toResponse(&rates[i]))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	rateID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrTaxRateNotFound
	}

	rate, err := s.repo.FindByID(ctx, orgID, rateID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.ErrTaxRateNotFound
	}

	resp := toResponse(rate)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	rateID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrTaxRateNotFound
	}

	rate, err := s.repo.FindByID(ctx, orgID, rateID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.ErrTaxRateNotFound
	}

	if req.Name != nil {
		rate.Name = strings.TrimSpace(*req.Name)
	}
	if req.TaxType != nil {
		rate.TaxType = strings.ToUpper(strings.TrimSpace(*req.TaxType))
	}
	if req.Rate != nil {
		rate.Rate = *req.Rate
	}
	if req.Description != nil {
		rate.Description = req.Description
	}
	if req.IsEnabled != nil {
		rate.IsEnabled = *req.IsEnabled
	}
	rate.UpdatedAt = time.Now().UTC()

	if err := rate.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rate); err != nil {
		return nil, err
	}

	resp := toResponse(rate)
	return &resp, nil
}

func (s *service) Disable(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}

	rateID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrTaxRateNotFound
	}

	rate, err := s.repo.FindByID(ctx, orgID, rateID)
	if err != nil {
		return err
	}
	if rate == nil {
		return domain.ErrTaxRateNotFound
	}
	if !rate.IsEnabled {
		return nil
	}

	rate.IsEnabled = false
	rate.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, rate)
}

func toResponse(rate *domain.TaxRate) domain.Response {
	return domain.Response{
		ID:          rate.ID.String(),
		Name:        rate.Name,
		TaxType:     rate.TaxType,
		Rate:        rate.Rate,
		Description: rate.Description,
		IsEnabled:   rate.IsEnabled,
		CreatedAt:   rate.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   rate.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
