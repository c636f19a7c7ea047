package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/cache"
	catalogdomain "github.com/shopkit/tradepost/internal/catalog/domain"
	"github.com/shopkit/tradepost/internal/clock"
	"github.com/shopkit/tradepost/internal/config"
	"github.com/shopkit/tradepost/internal/inventory/domain"
	locationdomain "github.com/shopkit/tradepost/internal/location/domain"
	"github.com/shopkit/tradepost/internal/observability/metrics"
	"github.com/shopkit/tradepost/internal/orgcontext"
	"github.com/shopkit/tradepost/internal/outbox"
	"github.com/shopkit/tradepost/internal/ratelimit"
	reasondomain "github.com/shopkit/tradepost/internal/reason/domain"
	"github.com/shopkit/tradepost/pkg/db/option"
	"github.com/shopkit/tradepost/pkg/repository"
)

var errNegativeStock = errors.New("negative_stock")

type ServiceParams struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Products  catalogdomain.Repository
	Locations locationdomain.Repository
	Reasons   reasondomain.Repository
	Policy    *config.StockPolicyHolder
	Cache     *cache.SummaryCache
	Publisher outbox.Publisher
	Limiter   *ratelimit.AdjustmentLimiter `optional:"true"`
	Metrics   *metrics.Metrics             `optional:"true"`
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	products  catalogdomain.Repository
	locations locationdomain.Repository
	reasons   reasondomain.Repository
	policy    *config.StockPolicyHolder
	cache     *cache.SummaryCache
	publisher outbox.Publisher
	limiter   *ratelimit.AdjustmentLimiter
	metrics   *metrics.Metrics

	summaries   repository.Repository[domain.StockSummary]
	adjustments repository.Repository[domain.Adjustment]
}

func NewService(p ServiceParams) domain.Service {
	return &service{
		db:          p.DB,
		log:         p.Log.Named("inventory.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		products:    p.Products,
		locations:   p.Locations,
		reasons:     p.Reasons,
		policy:      p.Policy,
		cache:       p.Cache,
		publisher:   p.Publisher,
		limiter:     p.Limiter,
		metrics:     p.Metrics,
		summaries:   repository.ProvideStore[domain.StockSummary](p.DB),
		adjustments: repository.ProvideStore[domain.Adjustment](p.DB),
	}
}

func (s *service) GetSummary(ctx context.Context, productID, locationID string) (*domain.SummaryResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	productID = strings.TrimSpace(productID)
	locationID = strings.TrimSpace(locationID)

	if cached, ok := s.cache.Get(orgID.String(), productID, locationID); ok {
		return s.toSummaryResponse(cached), nil
	}

	// Snapshot the generation before the read so a concurrent adjustment
	// invalidates this result instead of being overwritten by it.
	gen := s.cache.Generation(orgID.String(), productID, locationID)

	summary, err := s.lookupSummary(ctx, orgID, productID, locationID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(orgID.String(), productID, locationID, gen, summary)
	return s.toSummaryResponse(summary), nil
}

// lookupSummary reads the summary row, falling back to a zeroed snapshot for
// pairs that have never moved stock.
func (s *service) lookupSummary(ctx context.Context, orgID snowflake.ID, productID, locationID string) (*domain.StockSummary, error) {
	pid, perr := snowflake.ParseString(productID)
	lid, lerr := snowflake.ParseString(locationID)
	if perr != nil || lerr != nil {
		return &domain.StockSummary{OrgID: orgID}, nil
	}

	summary, err := s.summaries.FindOne(ctx, &domain.StockSummary{
		OrgID:      orgID,
		ProductID:  pid,
		LocationID: lid,
	})
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = &domain.StockSummary{OrgID: orgID, ProductID: pid, LocationID: lid}
	}
	return summary, nil
}

func (s *service) toSummaryResponse(summary *domain.StockSummary) *domain.SummaryResponse {
	policy := s.policy.Get()

	resp := &domain.SummaryResponse{
		StockQuantity:       summary.StockQuantity,
		ReservedQuantity:    summary.ReservedQuantity,
		NonSaleableQuantity: summary.NonSaleableQuantity,
		OnOrderQuantity:     summary.OnOrderQuantity,
		InTransitQuantity:   summary.InTransitQuantity,
		ReturnedQuantity:    summary.ReturnedQuantity,
		OnHoldQuantity:      summary.OnHoldQuantity,
		BackorderedQuantity: summary.BackorderedQuantity,
		AvailableQuantity:   summary.StockQuantity - summary.ReservedQuantity - summary.OnHoldQuantity,
		LowStock:            summary.StockQuantity <= policy.LowStockThreshold,
	}
	if summary.ProductID != 0 {
		resp.ProductID = summary.ProductID.String()
	}
	if summary.LocationID != 0 {
		resp.LocationID = summary.LocationID.String()
	}
	if summary.ID != 0 {
		ts := summary.UpdatedAt.UTC().Format(time.RFC3339)
		resp.UpdatedAt = &ts
	}
	return resp
}

func (s *service) ListAdjustments(ctx context.Context, req domain.ListAdjustmentsRequest) ([]domain.AdjustmentResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	query := &domain.Adjustment{OrgID: orgID}
	if raw := strings.TrimSpace(req.ProductID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return []domain.AdjustmentResponse{}, nil
		}
		query.ProductID = id
	}
	if raw := strings.TrimSpace(req.LocationID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return []domain.AdjustmentResponse{}, nil
		}
		query.LocationID = id
	}
	if adjType := strings.ToUpper(strings.TrimSpace(req.AdjustmentType)); adjType != "" {
		query.AdjustmentType = adjType
	}

	sort := option.WithSortBy(option.QuerySortBy{
		SortBy:  req.SortBy,
		OrderBy: req.OrderBy,
		Allow:   map[string]bool{"created_at": true, "quantity_change": true, "adjustment_type": true},
	})

	rows, err := s.adjustments.Find(ctx, query, sort)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.AdjustmentResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toAdjustmentResponse(row, nil))
	}
	return resp, nil
}

func (s *service) Apply(ctx context.Context, draft domain.AdjustmentDraft) (*domain.AdjustmentResponse, domain.FieldErrors, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, nil, domain.ErrInvalidOrganization
	}

	adjType := strings.ToUpper(strings.TrimSpace(draft.AdjustmentType))

	// Product flags feed the validator, so the lookup happens first.
	var product *catalogdomain.Product
	if id, err := snowflake.ParseString(strings.TrimSpace(draft.ProductID)); err == nil {
		product, err = s.products.FindByID(ctx, orgID, id)
		if err != nil {
			return nil, nil, err
		}
	}
	var flags domain.ProductFlags
	if product != nil {
		flags = domain.ProductFlags{IsSerialized: product.IsSerialized, IsLotted: product.IsLotted}
	}

	payload, fieldErrs := domain.ValidateDraft(draft, flags)
	if fieldErrs == nil {
		fieldErrs = domain.FieldErrors{}
	}

	if err := s.checkReferences(ctx, orgID, draft, adjType, product, fieldErrs); err != nil {
		return nil, nil, err
	}

	policy := s.policy.Get()
	if _, flagged := fieldErrs["quantity_change"]; !flagged {
		qty, err := strconv.ParseInt(strings.TrimSpace(draft.QuantityChange), 10, 64)
		if err == nil {
			if qty > policy.MaxQuantityPerAdjustment || -qty > policy.MaxQuantityPerAdjustment {
				fieldErrs["quantity_change"] = "quantity change exceeds the configured maximum"
			}
		}
	}

	if len(fieldErrs) > 0 {
		s.recordRejected(ctx, orgID, adjType, "validation")
		return nil, fieldErrs, nil
	}

	// Serialize concurrent applies against the same summary row.
	token, locked, err := s.limiter.TryLockSummary(ctx, orgID.String(), payload.ProductID.String(), payload.LocationID.String())
	if err != nil {
		return nil, nil, err
	}
	if !locked {
		s.recordRejected(ctx, orgID, adjType, "locked")
		return nil, nil, domain.ErrSummaryBusy
	}
	defer func() {
		if err := s.limiter.ReleaseSummary(ctx, orgID.String(), payload.ProductID.String(), payload.LocationID.String(), token); err != nil {
			s.log.Warn("failed to release summary lock", zap.Error(err))
		}
	}()

	adjustment, warning, err := s.commit(ctx, orgID, payload, policy)
	if errors.Is(err, errNegativeStock) {
		s.recordRejected(ctx, orgID, adjType, "policy")
		return nil, domain.FieldErrors{"quantity_change": "insufficient stock at this location"}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	s.cache.Invalidate(orgID.String(), payload.ProductID.String(), payload.LocationID.String())
	s.emitStockAdjusted(ctx, orgID, adjustment)
	if s.metrics != nil {
		s.metrics.RecordAdjustmentApplied(ctx, orgID.String(), adjustment.AdjustmentType)
	}

	s.log.Info("stock adjusted",
		zap.String("org_id", orgID.String()),
		zap.String("reference_code", adjustment.ReferenceCode),
		zap.String("adjustment_type", adjustment.AdjustmentType),
		zap.Int64("quantity_change", adjustment.QuantityChange),
		zap.Int64("new_stock_level", adjustment.NewStockLevel),
	)

	resp := toAdjustmentResponse(adjustment, warning)
	return &resp, nil, nil
}

// checkReferences verifies the draft's product, location, and reason rows
// exist and are usable, adding to fieldErrs without overwriting messages the
// pure validator already produced.
func (s *service) checkReferences(ctx context.Context, orgID snowflake.ID, draft domain.AdjustmentDraft, adjType string, product *catalogdomain.Product, fieldErrs domain.FieldErrors) error {
	if _, flagged := fieldErrs["product_id"]; !flagged && product == nil {
		fieldErrs["product_id"] = "product not found"
	}

	if _, flagged := fieldErrs["location_id"]; !flagged {
		id, _ := snowflake.ParseString(strings.TrimSpace(draft.LocationID))
		location, err := s.locations.FindByID(ctx, orgID, id)
		if err != nil {
			return err
		}
		switch {
		case location == nil:
			fieldErrs["location_id"] = "location not found"
		case !location.IsEnabled:
			fieldErrs["location_id"] = "location is disabled"
		}
	}

	if _, flagged := fieldErrs["reason_id"]; !flagged {
		id, _ := snowflake.ParseString(strings.TrimSpace(draft.ReasonID))
		reason, err := s.reasons.FindByID(ctx, orgID, id)
		if err != nil {
			return err
		}
		switch {
		case reason == nil:
			fieldErrs["reason_id"] = "reason not found"
		case !reason.IsEnabled:
			fieldErrs["reason_id"] = "reason is disabled"
		case domain.KnownType(adjType) && !reason.Applies(adjType):
			fieldErrs["reason_id"] = "reason does not apply to " + adjType
		}
	}

	return nil
}

// commit applies the payload to the summary and records the adjustment in
// one transaction.
func (s *service) commit(ctx context.Context, orgID snowflake.ID, payload *domain.Payload, policy config.StockPolicy) (*domain.Adjustment, *string, error) {
	now := s.clock.Now()
	bucket := domain.BucketFor(payload.AdjustmentType)

	var adjustment *domain.Adjustment
	var warning *string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		summaries := s.summaries.WithTrx(tx)

		summary, err := summaries.FindOne(ctx, &domain.StockSummary{
			OrgID:      orgID,
			ProductID:  payload.ProductID,
			LocationID: payload.LocationID,
		})
		if err != nil {
			return err
		}

		created := false
		if summary == nil {
			summary = &domain.StockSummary{
				ID:         s.genID.Generate(),
				OrgID:      orgID,
				ProductID:  payload.ProductID,
				LocationID: payload.LocationID,
				CreatedAt:  now,
			}
			created = true
		}

		projected := summary.Bucket(bucket) + payload.QuantityChange
		if projected < 0 {
			if policy.RejectNegativeStock {
				return errNegativeStock
			}
			message := fmt.Sprintf("%s quantity drops to %d at this location", bucket, projected)
			warning = &message
		}

		summary.AddToBucket(bucket, payload.QuantityChange)
		summary.UpdatedAt = now

		if created {
			if err := summaries.Create(ctx, summary); err != nil {
				return err
			}
		} else if err := summaries.BatchUpdate(ctx, []*domain.StockSummary{summary}); err != nil {
			return err
		}

		adjustment = &domain.Adjustment{
			ID:             s.genID.Generate(),
			OrgID:          orgID,
			ReferenceCode:  ulid.Make().String(),
			ProductID:      payload.ProductID,
			LocationID:     payload.LocationID,
			AdjustmentType: payload.AdjustmentType,
			QuantityChange: payload.QuantityChange,
			ReasonID:       payload.ReasonID,
			SerialNumber:   payload.SerialNumber,
			LotNumber:      payload.LotNumber,
			ExpiryDate:     payload.ExpiryDate,
			Notes:          payload.Notes,
			NewStockLevel:  projected,
			CreatedAt:      now,
		}
		return s.adjustments.WithTrx(tx).Create(ctx, adjustment)
	})
	if err != nil {
		return nil, nil, err
	}
	return adjustment, warning, nil
}

func (s *service) recordRejected(ctx context.Context, orgID snowflake.ID, adjType, reason string) {
	if s.metrics == nil {
		return
	}
	if adjType == "" {
		adjType = "UNKNOWN"
	}
	s.metrics.RecordAdjustmentRejected(ctx, orgID.String(), adjType, reason)
}

func (s *service) emitStockAdjusted(ctx context.Context, orgID snowflake.ID, adjustment *domain.Adjustment) {
	if s.publisher == nil {
		return
	}

	payload := map[string]any{
		"reference_code":  adjustment.ReferenceCode,
		"product_id":      adjustment.ProductID.String(),
		"location_id":     adjustment.LocationID.String(),
		"adjustment_type": adjustment.AdjustmentType,
		"quantity_change": adjustment.QuantityChange,
		"new_stock_level": adjustment.NewStockLevel,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("failed to marshal inventory.adjusted payload", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, orgID, outbox.StockAdjustedTopic, data); err != nil {
		s.log.Warn("failed to enqueue inventory.adjusted event", zap.Error(err))
	}
}

func toAdjustmentResponse(adjustment *domain.Adjustment, warning *string) domain.AdjustmentResponse {
	resp := domain.AdjustmentResponse{
		ID:             adjustment.ID.String(),
		ReferenceCode:  adjustment.ReferenceCode,
		ProductID:      adjustment.ProductID.String(),
		LocationID:     adjustment.LocationID.String(),
		AdjustmentType: adjustment.AdjustmentType,
		QuantityChange: adjustment.QuantityChange,
		ReasonID:       adjustment.ReasonID.String(),
		SerialNumber:   adjustment.SerialNumber,
		LotNumber:      adjustment.LotNumber,
		Notes:          adjustment.Notes,
		NewStockLevel:  adjustment.NewStockLevel,
		Warning:        warning,
		CreatedAt:      adjustment.CreatedAt.UTC().Format(time.RFC3339),
	}
	if adjustment.ExpiryDate != nil {
		expiry := adjustment.ExpiryDate.UTC().Format("2006-01-02")
		resp.ExpiryDate = &expiry
	}
	return resp
}
