package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shopkit/tradepost/internal/channel/domain"
	"github.com/shopkit/tradepost/internal/channel/repository"
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
		log:   p.Log.Named("channel.service"),
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
	if req.Name == "" {
		return nil, domain.ErrInvalidName
	}

	code, err := s.uniqueCode(ctx, orgID, req.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	channel := &domain.Channel{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		IsEnabled:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := channel.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, channel); err != nil {
		return nil, err
	}

	s.log.Info("channel created",
		zap.String("org_id", orgID.String()),
		zap.String("channel_id", channel.ID.String()),
		zap.String("code", channel.Code),
	)

	resp := toResponse(channel)
	return &resp, nil
}

// uniqueCode slugs the name and appends a numeric suffix until the code is
// free within the org.
func (s *service) uniqueCode(ctx context.Context, orgID snowflake.ID, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", domain.ErrInvalidCode
	}

	code := base
	for i := 2; ; i++ {
		existing, err := s.repo.FindByCode(ctx, orgID, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
		code = fmt.Sprintf("%s-%d", base, i)
	}
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

	channels, err := s.repo.Find(ctx, orgID, opts...)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(channels))
	for i := range channels {
		resp = append(resp, toResponse(&channels[i]))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	channelID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrChannelNotFound
	}

	channel, err := s.repo.FindByID(ctx, orgID, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, domain.ErrChannelNotFound
	}

	resp := toResponse(channel)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	channelID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrChannelNotFound
	}

	channel, err := s.repo.FindByID(ctx, orgID, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, domain.ErrChannelNotFound
	}

	// Code stays stable after create even when the name changes.
	if req.Name != nil {
		channel.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		channel.Description = req.Description
	}
	if req.IsEnabled != nil {
		channel.IsEnabled = *req.IsEnabled
	}
	channel.UpdatedAt = time.Now().UTC()

	if err := channel.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, channel); err != nil {
		return nil, err
	}

	resp := toResponse(channel)
	return &resp, nil
}

func (s *service) Disable(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}

	channelID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrChannelNotFound
	}

	channel, err := s.repo.FindByID(ctx, orgID, channelID)
	if err != nil {
		return err
	}
	if channel == nil {
		return domain.ErrChannelNotFound
	}
	if !channel.IsEnabled {
		return nil
	}

	channel.IsEnabled = false
	channel.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, channel)
}

func toResponse(channel *domain.Channel) domain.Response {
	return domain.Response{
		ID:          channel.ID.String(),
		Code:        channel.Code,
		Name:        channel.Name,
		Description: channel.Description,
		IsEnabled:   channel.IsEnabled,
		CreatedAt:   channel.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   channel.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
