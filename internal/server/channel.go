package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	channeldomain "github.com/shopkit/tradepost/internal/channel/domain"
)

func (s *Server) CreateChannel(c *gin.Context) {
	var req channeldomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.channelSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListChannels(c *gin.Context) {
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

	resp, err := s.channelSvc.List(c.Request.Context(), channeldomain.ListRequest{
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

func (s *Server) GetChannelByID(c *gin.Context) {
	resp, err := s.channelSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateChannel(c *gin.Context) {
	var req channeldomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.channelSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisableChannel(c *gin.Context) {
	if err := s.channelSvc.Disable(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"disabled": true}})
}

func isChannelValidationError(err error) bool {
	switch err {
	case channeldomain.ErrInvalidOrganization,
		channeldomain.ErrInvalidName,
		channeldomain.ErrInvalidCode:
		return true
	default:
		return false
	}
}
