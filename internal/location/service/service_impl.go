package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shopkit/tradepost/internal/location/domain"
	"github.com/shopkit/tradepost/internal/location/repository"
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
		log:   p.Log.Named("location.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Name = strings.TrimSpace(req.Name)

	existing, err := s.repo.FindByCode(ctx, orgID, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCode
	}

	if req.IsDefault {
		if err := s.repo.ClearDefault(ctx, orgID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	location := &domain.Location{
		ID:           s.genID.Generate(),
		OrgID:        orgID,
		Code:         req.Code,
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		IsDefault:    req.IsDefault,
		IsEnabled:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, location); err != nil {
		return nil, err
	}

	s.log.Info("location created",
		zap.String("org_id", orgID.String()),
		zap.String("location_id", location.ID.String()),
		zap.String("code", location.Code),
	)

	resp := toResponse(location)
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

	locations, err := s.repo.Find(ctx, orgID, opts...)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(locations))
	for i := range locations {
		resp = append(resp, toResponse(&locations[i]))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	locationID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrLocationNotFound
	}

	location, err := s.repo.FindByID(ctx, orgID, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrLocationNotFound
	}

	resp := toResponse(location)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	locationID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrLocationNotFound
	}

	location, err := s.repo.FindByID(ctx, orgID, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrLocationNotFound
	}

	if req.Name != nil {
		location.Name = strings.TrimSpace(*req.Name)
	}
	if req.AddressLine1 != nil {
		location.AddressLine1 = req.AddressLine1
	}
	if req.AddressLine2 != nil {
		location.AddressLine2 = req.AddressLine2
	}
	if req.City != nil {
		location.City = req.City
	}
	if req.State != nil {
		location.State = req.State
	}
	if req.PostalCode != nil {
		location.PostalCode = req.PostalCode
	}
	if req.Country != nil {
		location.Country = req.Country
	}
	if req.IsDefault != nil && *req.IsDefault && !location.IsDefault {
		if err := s.repo.ClearDefault(ctx, orgID); err != nil {
			return nil, err
		}
		location.IsDefault = true
	}
	if req.IsEnabled != nil {
		location.IsEnabled = *req.IsEnabled
	}
	location.UpdatedAt = time.Now().UTC()

	if err := location.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, location); err != nil {
		return nil, err
	}

	resp := toResponse(location)
	return &resp, nil
}

func (s *service) Disable(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}

	locationID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrLocationNotFound
	}

	location, err := s.repo.FindByID(ctx, orgID, locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrLocationNotFound
	}
	if !location.IsEnabled {
		return nil
	}

	location.IsEnabled = false
	location.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, location)
}

func toResponse(location *domain.Location) domain.Response {
	return domain.Response{
		ID:           location.ID.String(),
		Code:         location.Code,
		Name:         location.Name,
		AddressLine1: location.AddressLine1,
		AddressLine2: location.AddressLine2,
		City:         location.City,
		State:        location.State,
		PostalCode:   location.PostalCode,
		Country:      location.Country,
		IsDefault:    location.IsDefault,
		IsEnabled:    location.IsEnabled,
		CreatedAt:    location.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    location.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
