package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/inbox/pkg/models"
)

// listProjects handles GET /api/projects.
func (s *Server) listProjects(c *gin.Context) {
	userID := authenticatedUserID(c)
	projects, err := s.store.Projects.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		resp := newProjectResponse(p)
		if n, err := s.store.Projects.ItemCount(c.Request.Context(), p.ID, userID); err == nil {
			resp.ItemCount = n
		}
		out[i] = resp
	}
	c.JSON(http.StatusOK, out)
}

// createProject handles POST /api/projects.
func (s *Server) createProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := s.store.Projects.Create(c.Request.Context(), models.CreateProjectInput{
		UserID: authenticatedUserID(c),
		Name:   req.Name,
		Color:  req.Color,
		Emoji:  req.Emoji,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProjectResponse(p))
}

// updateProject handles PATCH /api/projects/{id}.
func (s *Server) updateProject(c *gin.Context) {
	id, err := pathItemID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := s.store.Projects.Update(c.Request.Context(), id, authenticatedUserID(c), models.UpdateProjectFields{
		Name:  req.Name,
		Color: req.Color,
		Emoji: req.Emoji,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(p))
}

// deleteProject handles DELETE /api/projects/{id}. Deleting a project
// nulls the project reference on all of its items (ON DELETE SET NULL at
// the database level — see ent/schema/item.go's project edge).
func (s *Server) deleteProject(c *gin.Context) {
	id, err := pathItemID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.store.Projects.Delete(c.Request.Context(), id, authenticatedUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
