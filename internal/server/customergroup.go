package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customergroupdomain "github.com/shopkit/tradepost/internal/customergroup/domain"
)

func (s *Server) CreateCustomerGroup(c *gin.Context) {
	var req customergroupdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerGroupSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomerGroups(c *gin.Context) {
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

	resp, err := s.customerGroupSvc.List(c.Request.Context(), customergroupdomain.ListRequest{
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

func (s *Server) GetCustomerGroupByID(c *gin.Context) {
	resp, err := s.customerGroupSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomerGroup(c *gin.Context) {
	var req customergroupdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerGroupSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisableCustomerGroup(c *gin.Context) {
	if err := s.customerGroupSvc.Disable(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"disabled": true}})
}

func isCustomerGroupValidationError(err error) bool {
	switch err {
	case customergroupdomain.ErrInvalidOrganization,
		customergroupdomain.ErrInvalidName:
		return true
	default:
		return false
	}
}
