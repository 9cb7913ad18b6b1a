package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/inbox/pkg/models"
)

// routeMessage handles POST /internal/route: the external chat-transport
// adapter posts one InboundMessage envelope and gets back the
// OutboundReply the router produced, per spec.md §6.
func (s *Server) routeMessage(c *gin.Context) {
	var in models.InboundMessage
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	reply, err := s.router.Route(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
