package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	documentdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/document/domain"
)

// PreviewDocument runs the totals engine over the submitted payload
// without touching storage. It answers 200 for any decodable body.
func (s *Server) PreviewDocument(c *gin.Context) {
	orgID := s.orgIDString(c)

	if s.previewLimiter != nil && s.previewLimiter.Enabled() {
		allowed, err := s.previewLimiter.Allow(c.Request.Context(), orgID)
		if err != nil {
			// Redis being down must not take previews with it.
			allowed = true
		}
		if !allowed {
			if s.obsMetrics != nil {
				s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), orgID, "preview", "rate_limited")
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		if s.obsMetrics != nil {
			s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), orgID, "preview")
		}
	}

	var req documentdomain.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	totals := s.documentSvc.Preview(req)

	if s.obsMetrics != nil {
		s.obsMetrics.RecordPreview(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{"data": totals})
}
