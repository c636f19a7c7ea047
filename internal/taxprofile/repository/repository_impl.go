package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/taxprofile/domain"
	"github.com/shopkit/tradepost/pkg/db/option"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

var profileSortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

func SortableColumns() map[string]bool { return profileSortable }

func (r *repo) Create(ctx context.Context, profile *domain.TaxProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		return createRules(tx, profile)
	})
}

func (r *repo) ReplaceRules(ctx context.Context, profile *domain.TaxProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ruleIDs []snowflake.ID
		err := tx.Model(&domain.TaxProfileRule{}).
			Where("org_id = ? AND profile_id = ?", profile.OrgID, profile.ID).
			Pluck("id", &ruleIDs).Error
		if err != nil {
			return err
		}
		if len(ruleIDs) > 0 {
			if err := tx.Where("rule_id IN ?", ruleIDs).Delete(&domain.TaxRuleOutcome{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ruleIDs).Delete(&domain.TaxProfileRule{}).Error; err != nil {
				return err
			}
		}
		return createRules(tx, profile)
	})
}

func createRules(tx *gorm.DB, profile *domain.TaxProfile) error {
	for i := range profile.Rules {
		rule := &profile.Rules[i]
		rule.OrgID = profile.OrgID
		rule.ProfileID = profile.ID
		if err := tx.Create(rule).Error; err != nil {
			return err
		}
		for j := range rule.Outcomes {
			outcome := &rule.Outcomes[j]
			outcome.OrgID = profile.OrgID
			outcome.RuleID = rule.ID
			if err := tx.Create(outcome).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *repo) Update(ctx context.Context, profile *domain.TaxProfile) error {
	return r.db.WithContext(ctx).
		Model(&domain.TaxProfile{}).
		Where("org_id = ? AND id = ?", profile.OrgID, profile.ID).
		Updates(map[string]any{
			"name":        profile.Name,
			"description": profile.Description,
			"is_enabled":  profile.IsEnabled,
			"updated_at":  profile.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.TaxProfile, error) {
	var profile domain.TaxProfile
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) FindByName(ctx context.Context, orgID snowflake.ID, name string) (*domain.TaxProfile, error) {
	var profile domain.TaxProfile
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND name = ?", orgID, name).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]domain.TaxProfile, error) {
	query := r.db.WithContext(ctx).Model(&domain.TaxProfile{}).Where("org_id = ?", orgID)
	for _, opt := range opts {
		query = opt.Apply(query)
	}

	var profiles []domain.TaxProfile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *repo) LoadRules(ctx context.Context, profile *domain.TaxProfile) error {
	var rules []domain.TaxProfileRule
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND profile_id = ?", profile.OrgID, profile.ID).
		Order("priority asc, id asc").
		Find(&rules).Error
	if err != nil {
		return err
	}

	for i := range rules {
		var outcomes []domain.TaxRuleOutcome
		err := r.db.WithContext(ctx).
			Where("rule_id = ?", rules[i].ID).
			Order("position asc, id asc").
			Find(&outcomes).Error
		if err != nil {
			return err
		}
		rules[i].Outcomes = outcomes
	}

	profile.Rules = rules
	return nil
}
