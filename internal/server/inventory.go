package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	inventorydomain "github.com/shopkit/tradepost/internal/inventory/domain"
	"github.com/shopkit/tradepost/internal/observability/logger"
	obsmetrics "github.com/shopkit/tradepost/internal/observability/metrics"
	"github.com/shopkit/tradepost/internal/orgcontext"
	"go.uber.org/zap"
)

const rateLimitReasonOrgRate = "org-rate"

func (s *Server) GetStockSummary(c *gin.Context) {
	var query struct {
		ProductID  string `form:"product_id"`
		LocationID string `form:"location_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	productID := strings.TrimSpace(query.ProductID)
	locationID := strings.TrimSpace(query.LocationID)
	if productID == "" {
		AbortWithError(c, newValidationError("product_id", "invalid_product_id", "product_id is required"))
		return
	}
	if locationID == "" {
		AbortWithError(c, newValidationError("location_id", "invalid_location_id", "location_id is required"))
		return
	}

	resp, err := s.inventorySvc.GetSummary(c.Request.Context(), productID, locationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStockAdjustments(c *gin.Context) {
	var query struct {
		ProductID      string `form:"product_id"`
		LocationID     string `form:"location_id"`
		AdjustmentType string `form:"adjustment_type"`
		SortBy         string `form:"sort_by"`
		OrderBy        string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.ListAdjustments(c.Request.Context(), inventorydomain.ListAdjustmentsRequest{
		ProductID:      strings.TrimSpace(query.ProductID),
		LocationID:     strings.TrimSpace(query.LocationID),
		AdjustmentType: strings.TrimSpace(query.AdjustmentType),
		SortBy:         strings.TrimSpace(query.SortBy),
		OrderBy:        strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ApplyStockAdjustment accepts the raw adjustment form. Validation problems
// come back together as a 400 with one entry per field; a clean draft
// responds with the recorded adjustment, including any negative stock
// advisory the policy allows through.
func (s *Server) ApplyStockAdjustment(c *gin.Context) {
	var draft inventorydomain.AdjustmentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, fieldErrs, err := s.inventorySvc.Apply(c.Request.Context(), draft)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(fieldErrs) > 0 {
		AbortWithError(c, fieldErrorsToValidation(fieldErrs))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// AdjustmentRateLimit throttles adjustment writes per organization. The
// limiter is optional; without redis configured every request passes.
func (s *Server) AdjustmentRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.adjustLimiter == nil || !s.adjustLimiter.Enabled() {
			c.Next()
			return
		}

		orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
		if !ok || orgID == 0 {
			AbortWithError(c, newValidationError("org", "org_required", "missing "+HeaderOrg+" header"))
			return
		}

		ctx := c.Request.Context()
		endpoint := c.FullPath()

		result, err := s.adjustLimiter.AllowOrg(ctx, orgID.String())
		if err != nil {
			logger.FromContext(ctx).Warn("adjustment rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !result.Allowed {
			denyAdjustmentRateLimit(c, endpoint, orgID.String(), result.RetryAfter.Seconds(), s.obsMetrics)
			return
		}

		recordRateLimitAllowed(ctx, endpoint, orgID.String(), s.obsMetrics)
		c.Next()
	}
}

func denyAdjustmentRateLimit(c *gin.Context, endpoint, orgID string, retryAfterSeconds float64, metrics *obsmetrics.Metrics) {
	ctx := c.Request.Context()
	logger.FromContext(ctx).Warn("adjustment rate limit exceeded",
		zap.String("reason", rateLimitReasonOrgRate),
		zap.String("endpoint", endpoint),
	)
	recordRateLimitDenied(ctx, endpoint, orgID, rateLimitReasonOrgRate, metrics)

	retryAfter := int(retryAfterSeconds)
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.Header("X-Rate-Limited-Reason", rateLimitReasonOrgRate)
	AbortWithError(c, ErrRateLimited)
}

func recordRateLimitAllowed(ctx context.Context, endpoint, orgID string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitAllowed(ctx, orgID, endpoint)
}

func recordRateLimitDenied(ctx context.Context, endpoint, orgID, reason string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, orgID, endpoint, reason)
}

func isInventoryValidationError(err error) bool {
	switch err {
	case inventorydomain.ErrInvalidOrganization:
		return true
	default:
		return false
	}
}
