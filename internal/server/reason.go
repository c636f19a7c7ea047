package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	reasondomain "github.com/shopkit/tradepost/internal/reason/domain"
)

func (s *Server) CreateReason(c *gin.Context) {
	var req reasondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reasonSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReasons(c *gin.Context) {
	var query struct {
		AdjustmentType string `form:"adjustment_type"`
		EnabledOnly    string `form:"enabled_only"`
		SortBy         string `form:"sort_by"`
		OrderBy        string `form:"order_by"`
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

	resp, err := s.reasonSvc.List(c.Request.Context(), reasondomain.ListRequest{
		AdjustmentType: strings.TrimSpace(query.AdjustmentType),
		EnabledOnly:    boolValue(enabledOnly),
		SortBy:         strings.TrimSpace(query.SortBy),
		OrderBy:        strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetReasonByID(c *gin.Context) {
	resp, err := s.reasonSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateReason(c *gin.Context) {
	var req reasondomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reasonSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisableReason(c *gin.Context) {
	if err := s.reasonSvc.Disable(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"disabled": true}})
}

func isReasonValidationError(err error) bool {
	switch err {
	case reasondomain.ErrInvalidOrganization,
		reasondomain.ErrInvalidName:
		return true
	default:
		return false
	}
}
