package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obscontext "github.com/shopkit/tradepost/internal/observability/context"
	"github.com/shopkit/tradepost/internal/orgcontext"
)

// HeaderOrg names the header carrying the active organization ID. Every
// org-scoped route requires it; services never fall back to a global.
const HeaderOrg = "X-Org-ID"

// OrgContext resolves the organization from the request header and stores it
// in the request context for services and log correlation.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderOrg))
		if raw == "" {
			AbortWithError(c, newValidationError("org", "org_required", "missing "+HeaderOrg+" header"))
			return
		}

		orgID, err := snowflake.ParseString(raw)
		if err != nil || orgID == 0 {
			AbortWithError(c, newValidationError("org", "invalid_org", "invalid "+HeaderOrg+" header"))
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), orgID)
		ctx = obscontext.WithOrgID(ctx, orgID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
