package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type testCleanupRequest struct {
	Prefix string `json:"prefix"`
}

// TestCleanup removes every org whose name carries the given prefix along
// with all of its data. Registered outside production only; e2e suites use
// it to reset between runs.
func (s *Server) TestCleanup(c *gin.Context) {
	if s.cfg.Environment == "production" {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req testCleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		AbortWithError(c, newValidationError("prefix", "required", "prefix is required"))
		return
	}

	ctx := c.Request.Context()
	like := prefix + "%"

	var orgIDs []int64
	if err := s.db.WithContext(ctx).
		Table("organizations").
		Select("id").
		Where("name LIKE ?", like).
		Scan(&orgIDs).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	if len(orgIDs) > 0 {
		// Children before parents so foreign keys never block the sweep.
		tables := []string{
			"order_line_taxes",
			"order_line_items",
			"orders",
			"stock_adjustments",
			"stock_summaries",
			"customer_contacts",
			"customer_addresses",
			"customers",
			"customer_groups",
			"inventory_reasons",
			"locations",
			"channels",
			"products",
			"tax_rule_outcomes",
			"tax_profile_rules",
			"tax_profiles",
			"tax_rates",
			"outbox_events",
		}
		for _, table := range tables {
			if err := s.db.WithContext(ctx).Exec(
				"DELETE FROM "+table+" WHERE org_id IN ?", orgIDs,
			).Error; err != nil {
				AbortWithError(c, err)
				return
			}
		}
		if err := s.db.WithContext(ctx).Exec(
			"DELETE FROM organizations WHERE id IN ?", orgIDs,
		).Error; err != nil {
			AbortWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"organizations_removed": len(orgIDs)}})
}
