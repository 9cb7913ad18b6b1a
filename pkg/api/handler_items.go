package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/inbox/pkg/apperrors"
	"github.com/codeready-toolchain/inbox/pkg/models"
)

// listItems handles GET /api/items.
func (s *Server) listItems(c *gin.Context) {
	userID := authenticatedUserID(c)

	filter := models.ItemFilter{
		ProjectID: parseOptionalInt(c.Query("project_id")),
	}
	for _, t := range splitCSV(c.Query("type")) {
		filter.Types = append(filter.Types, models.ItemType(t))
	}
	for _, st := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, models.ItemStatus(st))
	}

	page, err := parsePage(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	items, total, err := s.store.Items.List(c.Request.Context(), userID, filter, page)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ItemListResponse{
		Items:  newItemResponses(items),
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// getItem handles GET /api/items/{id}.
func (s *Server) getItem(c *gin.Context) {
	id, err := pathItemID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	it, err := s.store.Items.Get(c.Request.Context(), id, authenticatedUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newItemResponse(it))
}

// updateItem handles PATCH /api/items/{id}.
func (s *Server) updateItem(c *gin.Context) {
	id, err := pathItemID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	fields := models.UpdateItemFields{
		Title:      req.Title,
		Content:    req.Content,
		ClearDueAt: req.ClearDueAt,
		ProjectID:  req.ProjectID,
		ClearProj:  req.ClearProj,
		Tags:       req.Tags,
	}
	if req.Status != nil {
		st := models.ItemStatus(*req.Status)
		fields.Status = &st
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		fields.Priority = &p
	}
	if req.DueAt != nil {
		t, err := time.Parse(time.RFC3339, *req.DueAt)
		if err != nil {
			badRequest(c, "due_at must be RFC3339")
			return
		}
		fields.DueAt = &t
	}

	it, err := s.store.Items.Update(c.Request.Context(), id, authenticatedUserID(c), fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newItemResponse(it))
}

// deleteItem handles DELETE /api/items/{id}.
func (s *Server) deleteItem(c *gin.Context) {
	id, err := pathItemID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	ok, err := s.store.Items.Delete(c.Request.Context(), id, authenticatedUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		writeError(c, apperrors.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// completeItem handles PATCH /api/items/{id}/complete.
func (s *Server) completeItem(c *gin.Context) {
	id, err := pathItemID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	completed, next, err := s.store.Items.Complete(c.Request.Context(), id, authenticatedUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if completed == nil {
		writeError(c, apperrors.ErrNotFound)
		return
	}

	resp := CompleteResponse{Completed: newItemResponse(completed)}
	if next != nil {
		nr := newItemResponse(next)
		resp.Next = &nr
	}
	c.JSON(http.StatusOK, resp)
}

// moveItem handles PATCH /api/items/{id}/move.
func (s *Server) moveItem(c *gin.Context) {
	id, err := pathItemID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	fields := models.UpdateItemFields{ProjectID: req.ProjectID, ClearProj: req.ProjectID == nil}
	it, err := s.store.Items.Update(c.Request.Context(), id, authenticatedUserID(c), fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newItemResponse(it))
}

// relatedItems handles GET /api/items/{id}/related: auto (semantic
// matches via hybrid search's FindSimilar) plus linked (explicit
// item_links rows), per spec.md §6.
func (s *Server) relatedItems(c *gin.Context) {
	id, err := pathItemID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	userID := authenticatedUserID(c)

	if _, err := s.store.Items.Get(c.Request.Context(), id, userID); err != nil {
		writeError(c, err)
		return
	}

	linked, err := s.store.ItemLinks.GetItemLinks(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	const minSimilarity = 0.3
	const autoLimit = 10
	auto := s.search.FindSimilar(c.Request.Context(), id, userID, minSimilarity, autoLimit)

	c.JSON(http.StatusOK, RelatedItemsResponse{Auto: auto, Linked: linked})
}

func pathItemID(c *gin.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseOptionalInt(raw string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func parsePage(c *gin.Context) (models.Page, error) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return models.Page{}, apperrors.NewValidationError("limit", "must be an integer in [1,100]")
		}
		limit = n
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return models.Page{}, apperrors.NewValidationError("offset", "must be a non-negative integer")
		}
		offset = n
	}
	return models.Page{Limit: limit, Offset: offset}, nil
}
