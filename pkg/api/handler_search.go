package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/codeready-toolchain/inbox/pkg/search"
)

// searchItems handles GET /api/search, running the hybrid FTS+vector
// engine (pkg/search) over the caller's items, per spec.md §4.2/§6.
func (s *Server) searchItems(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusOK, []models.SearchResult{})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	filter := search.Filter{Type: c.Query("type"), Status: c.Query("status")}
	results := s.search.Hybrid(c.Request.Context(), authenticatedUserID(c), q, limit, filter, models.DefaultSearchWeights())
	c.JSON(http.StatusOK, results)
}
