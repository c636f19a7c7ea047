package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	taxprofiledomain "github.com/shopkit/tradepost/internal/taxprofile/domain"
)

func (s *Server) CreateTaxProfile(c *gin.Context) {
	var req taxprofiledomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxProfileSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTaxProfiles(c *gin.Context) {
	var query struct {
		EnabledOnly string `form:"enabled_only"`
		SortBy      string `form:"sort_by"`
		OrderBy     string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	enabledOnly, err := parseOptionalBool(query.EnabledOnly)
	if err != nil {
		AbortWithError(c, newValidationError("enabled_only", "invalid_enabled_only", "invalid enabled_only"))
		return
	}

	resp, err := s.taxProfileSvc.List(c.Request.Context(), taxprofiledomain.ListRequest{
		EnabledOnly: boolValue(enabledOnly),
		SortBy:      strings.TrimSpace(query.SortBy),
		OrderBy:     strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTaxProfileByID(c *gin.Context) {
	resp, err := s.taxProfileSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTaxProfile(c *gin.Context) {
	var req taxprofiledomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxProfileSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisableTaxProfile(c *gin.Context) {
	if err := s.taxProfileSvc.Disable(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"disabled": true}})
}

// ResolveTaxProfile returns the ordered tax rate IDs a profile currently
// yields. The adjustment and order forms use it for default selections.
func (s *Server) ResolveTaxProfile(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id == 0 {
		AbortWithError(c, taxprofiledomain.ErrProfileNotFound)
		return
	}

	rateIDs, err := s.taxProfileSvc.Resolve(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]string, 0, len(rateIDs))
	for _, rateID := range rateIDs {
		out = append(out, rateID.String())
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"tax_rate_ids": out}})
}

func isTaxProfileValidationError(err error) bool {
	switch err {
	case taxprofiledomain.ErrInvalidOrganization,
		taxprofiledomain.ErrInvalidName,
		taxprofiledomain.ErrInvalidRule,
		taxprofiledomain.ErrInvalidOutcome:
		return true
	default:
		return false
	}
}
