package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/inbox/ent"
)

// getSettings handles GET /api/user/settings.
func (s *Server) getSettings(c *gin.Context) {
	u, err := s.store.Users.GetOrCreate(c.Request.Context(), authenticatedUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSettingsResponse(u))
}

// updateSettings handles PATCH /api/user/settings. timezone is validated
// against the IANA database; settings keys are merged into the existing
// free-form map rather than replacing it wholesale, matching PATCH
// semantics for a partial update.
func (s *Server) updateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID := authenticatedUserID(c)
	u, err := s.store.Users.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			badRequest(c, "timezone must be a valid IANA zone name")
			return
		}
		u, err = s.store.Users.UpdateTimezone(c.Request.Context(), userID, *req.Timezone)
		if err != nil {
			writeError(c, err)
			return
		}
	}

	if req.Settings != nil {
		merged := make(map[string]interface{}, len(u.Settings)+len(req.Settings))
		for k, v := range u.Settings {
			merged[k] = v
		}
		for k, v := range req.Settings {
			merged[k] = v
		}
		u, err = s.store.Users.UpdateSettings(c.Request.Context(), userID, merged)
		if err != nil {
			writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, newSettingsResponse(u))
}

func newSettingsResponse(u *ent.User) SettingsResponse {
	return SettingsResponse{Timezone: u.Timezone, Language: u.Language, Settings: u.Settings}
}
