package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/shopkit/tradepost/internal/organization/domain"
	"github.com/shopkit/tradepost/internal/outbox"
)

type service struct {
	repo      domain.Repository
	genID     *snowflake.Node
	publisher outbox.Publisher
}

func NewService(repo domain.Repository, genID *snowflake.Node, publisher outbox.Publisher) domain.Service {
	return &service{
		repo:      repo,
		genID:     genID,
		publisher: publisher,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	timezoneName := strings.TrimSpace(req.TimezoneName)
	if timezoneName == "" {
		timezoneName = "UTC"
	}
	if _, err := time.LoadLocation(timezoneName); err != nil {
		return nil, domain.ErrInvalidTimezone
	}

	orgSlug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:           s.genID.Generate(),
		Name:         name,
		Slug:         orgSlug,
		SupportEmail: req.SupportEmail,
		CountryCode:  strings.ToUpper(strings.TrimSpace(req.CountryCode)),
		TimezoneName: timezoneName,
		Metadata:     datatypes.JSONMap(req.Metadata),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}

	s.emitOrganizationCreated(ctx, org)

	resp := toResponse(&org)
	return &resp, nil
}

func (s *service) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", domain.ErrInvalidName
	}

	candidate := base
	for i := 2; ; i++ {
		existing, err := s.repo.FindBySlug(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	raw := strings.TrimSpace(id)
	if raw == "" {
		return nil, domain.ErrInvalidOrganization
	}
	orgID, err := snowflake.ParseString(raw)
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	org, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrInvalidOrganization
	}

	resp := toResponse(org)
	return &resp, nil
}

func (s *service) List(ctx context.Context) ([]domain.Response, error) {
	orgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(orgs))
	for i := range orgs {
		resp = append(resp, toResponse(&orgs[i]))
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	org, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrInvalidOrganization
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.SupportEmail != nil {
		org.SupportEmail = req.SupportEmail
	}
	if req.TimezoneName != nil {
		tz := strings.TrimSpace(*req.TimezoneName)
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, domain.ErrInvalidTimezone
		}
		org.TimezoneName = tz
	}
	if req.Metadata != nil {
		org.Metadata = datatypes.JSONMap(req.Metadata)
	}
	org.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *org); err != nil {
		return nil, err
	}

	resp := toResponse(org)
	return &resp, nil
}

func (s *service) emitOrganizationCreated(ctx context.Context, org domain.Organization) {
	if s.publisher == nil {
		return
	}

	payload := map[string]string{
		"organization_id": org.ID.String(),
		"slug":            org.Slug,
		"country_code":    org.CountryCode,
		"timezone_name":   org.TimezoneName,
		"created_at":      org.CreatedAt.Format(time.RFC3339),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		zap.L().Warn("failed to marshal organization.created payload", zap.Error(err))
		return
	}

	if err := s.publisher.Publish(ctx, org.ID, outbox.OrganizationCreatedTopic, data); err != nil {
		zap.L().Warn("failed to enqueue organization.created event", zap.Error(err))
	}
}

func toResponse(org *domain.Organization) domain.Response {
	return domain.Response{
		ID:           org.ID.String(),
		Name:         org.Name,
		Slug:         org.Slug,
		SupportEmail: org.SupportEmail,
		IsDefault:    org.IsDefault,
		CountryCode:  org.CountryCode,
		TimezoneName: org.TimezoneName,
		Metadata:     map[string]any(org.Metadata),
		CreatedAt:    org.CreatedAt.UTC().Format(time.RFC3339),
	}
}
