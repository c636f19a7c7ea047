package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shopkit/tradepost/internal/customergroup/domain"
	"github.com/shopkit/tradepost/internal/customergroup/repository"
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
		log:   p.Log.Named("customergroup.service"),
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

	existing, err := s.repo.FindByName(ctx, orgID, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}

	now := time.Now().UTC()
	group := &domain.CustomerGroup{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        req.Name,
		Description: req.Description,
		IsEnabled:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := group.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, group); err != nil {
		return nil, err
	}

	resp := toResponse(group)
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

	groups, err := s.repo.Find(ctx, orgID, opts...)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(groups))
	for i := range groups {
		resp = append(resp, toResponse(&groups[i]))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	groupID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrGroupNotFound
	}

	group, err := s.repo.FindByID(ctx, orgID, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrGroupNotFound
	}

	resp := toResponse(group)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	groupID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrGroupNotFound
	}

	group, err := s.repo.FindByID(ctx, orgID, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrGroupNotFound
	}

	if req.Name != nil {
		group.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		group.Description = req.Description
	}
	if req.IsEnabled != nil {
		group.IsEnabled = *req.IsEnabled
	}
	group.UpdatedAt = time.Now().UTC()

	if err := group.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}

	resp := toResponse(group)
	return &resp, nil
}

func (s *service) Disable(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}

	groupID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrGroupNotFound
	}

	group, err := s.repo.FindByID(ctx, orgID, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return domain.ErrGroupNotFound
	}
	if !group.IsEnabled {
		return nil
	}

	group.IsEnabled = false
	group.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, group)
}

func toResponse(group *domain.CustomerGroup) domain.Response {
	return domain.Response{
		ID:          group.ID.String(),
		Name:        group.Name,
		Description: group.Description,
		IsEnabled:   group.IsEnabled,
		CreatedAt:   group.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   group.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
