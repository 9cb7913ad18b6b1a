// Package api provides the HTTP surface (spec.md §6): a companion-client
// read/write API over items, projects, tasks, and search, orthogonal to
// the chat-transport ingestion path in pkg/router. Routing and handler
// shape follow the teacher's pkg/api/handlers.go gin style
// (c.ShouldBindJSON, c.JSON(status, gin.H{...})); the teacher's own
// server.go (an Echo v5 dashboard/session/websocket server) was not
// reused since none of its routes map to this domain — see DESIGN.md.
package api

import (
	"context"
	stdsql "database/sql"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/inbox/pkg/config"
	"github.com/codeready-toolchain/inbox/pkg/database"
	"github.com/codeready-toolchain/inbox/pkg/router"
	"github.com/codeready-toolchain/inbox/pkg/search"
	"github.com/codeready-toolchain/inbox/pkg/store"
	"github.com/codeready-toolchain/inbox/pkg/version"
)

// Server is the HTTP API server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server

	store  *store.Store
	search *search.Engine
	auth   config.AuthConfig
	router *router.Router
	db     *stdsql.DB
}

// NewServer builds a Server wired to st and se, with routes registered
// and the HMAC auth middleware (config.AuthConfig) applied to every
// /api/* route except health. rtr may be nil, in which case
// POST /internal/route is not registered — useful for tests that only
// exercise the companion-client surface. db, if non-nil, is pinged by
// GET /api/health (database.Health); a nil db reports status "ok"
// without a database check, for tests that don't wire a real one.
func NewServer(st *store.Store, se *search.Engine, authCfg config.AuthConfig, rtr *router.Router, db *stdsql.DB) *Server {
	s := &Server{
		store:  st,
		search: se,
		auth:   authCfg,
		router: rtr,
		db:     db,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery(), securityHeaders())
	s.setupRoutes()
	return s
}

// Engine exposes the underlying gin.Engine, mainly for tests that want to
// drive requests with httptest without a real listener.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/health", s.healthHandler)

	protected := s.engine.Group("/api")
	protected.Use(requireAuth(s.auth.SecretEnv, s.auth.MaxAge))

	protected.GET("/items", s.listItems)
	protected.GET("/items/:id", s.getItem)
	protected.PATCH("/items/:id", s.updateItem)
	protected.DELETE("/items/:id", s.deleteItem)
	protected.PATCH("/items/:id/complete", s.completeItem)
	protected.PATCH("/items/:id/move", s.moveItem)
	protected.GET("/items/:id/related", s.relatedItems)

	protected.GET("/tasks", s.taskBuckets)
	protected.GET("/tasks/calendar", s.taskCalendar)

	protected.GET("/projects", s.listProjects)
	protected.POST("/projects", s.createProject)
	protected.PATCH("/projects/:id", s.updateProject)
	protected.DELETE("/projects/:id", s.deleteProject)

	protected.GET("/search", s.searchItems)

	protected.GET("/user/settings", s.getSettings)
	protected.PATCH("/user/settings", s.updateSettings)

	// /internal/route is the boundary the external chat-transport
	// adapter calls into — it carries no companion-client token since
	// it isn't the companion-client surface; it's a trusted sidecar
	// call within the deployment (spec.md §1/§6 treat the transport
	// adapter itself as an external collaborator).
	if s.router != nil {
		s.engine.POST("/internal/route", s.routeMessage)
	}
}

// Start runs the HTTP server on addr (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.engine}
	return s.httpServer.ListenAndServe()
}

// StartWithListener runs the HTTP server on a pre-created listener,
// for tests that want a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.engine}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// healthHandler handles GET /api/health, grounded on the teacher's
// cmd/tarsy/main.go / pkg/api/server.go healthHandler pattern: a
// 5-second-bounded database.Health ping reporting connection pool
// stats alongside the build version.
func (s *Server) healthHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version.Full()})
		return
	}

	reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbHealth, err := database.Health(reqCtx, s.db)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Version:  version.Full(),
			Database: dbHealth,
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version.Full(), Database: dbHealth})
}
