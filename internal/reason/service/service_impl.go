package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shopkit/tradepost/internal/orgcontext"
	"github.com/shopkit/tradepost/internal/reason/domain"
	"github.com/shopkit/tradepost/internal/reason/repository"
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
		log:   p.Log.Named("reason.service"),
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
	reason := &domain.Reason{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        req.Name,
		Description: req.Description,
		AppliesTo:   normalizeAppliesTo(req.AppliesTo),
		IsEnabled:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := reason.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, reason); err != nil {
		return nil, err
	}

	s.log.Info("reason created",
		zap.String("org_id", orgID.String()),
		zap.String("reason_id", reason.ID.String()),
	)

	resp := toResponse(reason)
	return &resp, nil
}

func normalizeAppliesTo(values []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
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

	reasons, err := s.repo.Find(ctx, orgID, opts...)
	if err != nil {
		return nil, err
	}

	adjType := strings.ToUpper(strings.TrimSpace(req.AdjustmentType))

	resp := make([]domain.Response, 0, len(reasons))
	for i := range reasons {
		if adjType != "" && !reasons[i].Applies(adjType) {
			continue
		}
		resp = append(resp, toResponse(&reasons[i]))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	reasonID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrReasonNotFound
	}

	reason, err := s.repo.FindByID(ctx, orgID, reasonID)
	if err != nil {
		return nil, err
	}
	if reason == nil {
		return nil, domain.ErrReasonNotFound
	}

	resp := toResponse(reason)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	reasonID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrReasonNotFound
	}

	reason, err := s.repo.FindByID(ctx, orgID, reasonID)
	if err != nil {
		return nil, err
	}
	if reason == nil {
		return nil, domain.ErrReasonNotFound
	}

	if req.Name != nil {
		reason.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		reason.Description = req.Description
	}
	if req.AppliesTo != nil {
		reason.AppliesTo = normalizeAppliesTo(req.AppliesTo)
	}
	if req.IsEnabled != nil {
		reason.IsEnabled = *req.IsEnabled
	}
	reason.UpdatedAt = time.Now().UTC()

	if err := reason.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, reason); err != nil {
		return nil, err
	}

	resp := toResponse(reason)
	return &resp, nil
}

func (s *service) Disable(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}

	reasonID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrReasonNotFound
	}

	reason, err := s.repo.FindByID(ctx, orgID, reasonID)
	if err != nil {
		return err
	}
	if reason == nil {
		return domain.ErrReasonNotFound
	}
	if !reason.IsEnabled {
		return nil
	}

	reason.IsEnabled = false
	reason.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, reason)
}

func toResponse(reason *domain.Reason) domain.Response {
	return domain.Response{
		ID:          reason.ID.String(),
		Name:        reason.Name,
		Description: reason.Description,
		AppliesTo:   []string(reason.AppliesTo),
		IsEnabled:   reason.IsEnabled,
		CreatedAt:   reason.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   reason.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
