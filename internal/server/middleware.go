package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	obscontext "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/observability/context"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/orgcontext"
)

const HeaderOrg = "X-Org-ID"

// OrgContext resolves the active organization from the request header,
// falling back to the configured default for single-tenant installs.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := s.cfg.DefaultOrgID

		if raw := strings.TrimSpace(c.GetHeader(HeaderOrg)); raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil {
				AbortWithError(c, newValidationError("org_id", "invalid_org_id", "invalid org id"))
				return
			}
			orgID = int64(parsed)
		}

		if orgID == 0 {
			AbortWithError(c, newValidationError("org_id", "invalid_org_id", "missing org id"))
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), orgID)
		ctx = obscontext.WithOrgID(ctx, snowflake.ID(orgID).String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) orgIDString(c *gin.Context) string {
	id, ok := orgcontext.OrgIDFromContext(c.Request.Context())
	if !ok {
		return ""
	}
	return id.String()
}
