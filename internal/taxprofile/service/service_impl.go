package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shopkit/tradepost/internal/orgcontext"
	"github.com/shopkit/tradepost/internal/taxprofile/domain"
	"github.com/shopkit/tradepost/internal/taxprofile/repository"
	"github.com/shopkit/tradepost/pkg/db/option"
)

type ServiceParams struct {
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

func NewService(p ServiceParams) domain.Service {
	return &service{
		log:   p.Log.Named("taxprofile.service"),
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

	rules, err := s.buildRules(req.Rules)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &domain.TaxProfile{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        req.Name,
		Description: req.Description,
		IsEnabled:   true,
		Rules:       rules,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.log.Info("tax profile created",
		zap.String("org_id", orgID.String()),
		zap.String("profile_id", profile.ID.String()),
		zap.Int("rules", len(profile.Rules)),
	)

	resp := toResponse(profile)
	return &resp, nil
}

func (s *service) buildRules(inputs []domain.RuleInput) ([]domain.TaxProfileRule, error) {
	rules := make([]domain.TaxProfileRule, 0, len(inputs))
	for _, in := range inputs {
		criteria := strings.TrimSpace(in.Criteria)
		if criteria == "" {
			return nil, domain.ErrInvalidRule
		}

		rule := domain.TaxProfileRule{
			ID:        s.genID.Generate(),
			Criteria:  criteria,
			Priority:  in.Priority,
			CreatedAt: time.Now().UTC(),
		}
		for pos, out := range in.Outcomes {
			rateID, err := snowflake.ParseString(strings.TrimSpace(out.TaxRateID))
			if err != nil {
				return nil, domain.ErrInvalidOutcome
			}
			rule.Outcomes = append(rule.Outcomes, domain.TaxRuleOutcome{
				ID:        s.genID.Generate(),
				TaxRateID: rateID,
				Position:  pos,
				CreatedAt: time.Now().UTC(),
			})
		}
		rules = append(rules, rule)
	}
	return rules, nil
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

	profiles, err := s.repo.Find(ctx, orgID, opts...)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(profiles))
	for i := range profiles {
		resp = append(resp, toResponse(&profiles[i]))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	profileID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	profile, err := s.repo.FindByID(ctx, orgID, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	if err := s.repo.LoadRules(ctx, profile); err != nil {
		return nil, err
	}

	resp := toResponse(profile)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	profileID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	profile, err := s.repo.FindByID(ctx, orgID, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}

	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		profile.Description = req.Description
	}
	if req.IsEnabled != nil {
		profile.IsEnabled = *req.IsEnabled
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if req.ReplaceRules {
		rules, err := s.buildRules(req.Rules)
		if err != nil {
			return nil, err
		}
		profile.Rules = rules
		if err := s.repo.ReplaceRules(ctx, profile); err != nil {
			return nil, err
		}
	} else if err := s.repo.LoadRules(ctx, profile); err != nil {
		return nil, err
	}

	resp := toResponse(profile)
	return &resp, nil
}

func (s *service) Disable(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}

	profileID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrProfileNotFound
	}

	profile, err := s.repo.FindByID(ctx, orgID, profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return domain.ErrProfileNotFound
	}
	if !profile.IsEnabled {
		return nil
	}

	profile.IsEnabled = false
	profile.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, profile)
}

func (s *service) Resolve(ctx context.Context, id snowflake.ID) ([]snowflake.ID, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	profile, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	if !profile.IsEnabled {
		return nil, nil
	}
	if err := s.repo.LoadRules(ctx, profile); err != nil {
		return nil, err
	}

	seen := make(map[snowflake.ID]bool)
	var rateIDs []snowflake.ID
	for _, rule := range profile.Rules {
		for _, outcome := range rule.Outcomes {
			if seen[outcome.TaxRateID] {
				continue
			}
			seen[outcome.TaxRateID] = true
			rateIDs = append(rateIDs, outcome.TaxRateID)
		}
	}
	return rateIDs, nil
}

func toResponse(profile *domain.TaxProfile) domain.Response {
	resp := domain.Response{
		ID:          profile.ID.String(),
		Name:        profile.Name,
		Description: profile.Description,
		IsEnabled:   profile.IsEnabled,
		CreatedAt:   profile.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   profile.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, rule := range profile.Rules {
		rr := domain.RuleResponse{
			ID:       rule.ID.String(),
			Criteria: rule.Criteria,
			Priority: rule.Priority,
		}
		for _, outcome := range rule.Outcomes {
			rr.Outcomes = append(rr.Outcomes, domain.OutcomeResponse{
				ID:        outcome.ID.String(),
				TaxRateID: outcome.TaxRateID.String(),
				Position:  outcome.Position,
			})
		}
		resp.Rules = append(resp.Rules, rr)
	}
	return resp
}
