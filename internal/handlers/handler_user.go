package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/dto"
	"github.com/tallybeam/tallybeam/internal/middleware"
)

// userHandler handles HTTP requests related to the signed-in user.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// RegisterUserRoutes registers /user. rg must already require authentication.
func RegisterUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := &userHandler{userService: userService}

	user := rg.Group("/user")
	{
		user.POST("/sync", h.syncUser)
		user.GET("/sync", h.getUser)
		user.PUT("/preferences", h.updatePreferences)
	}
}

// syncUser godoc
// @Summary Create or refresh the signed-in user
// @Description Copies the verified identity claims into the local user record
// @Tags user
// @Produce  json
// @Success 200 {object} dto.UserEnvelope
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /user/sync [post]
func (h *userHandler) syncUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	profile, ok := middleware.GetIdentityFromContext(c)
	if !ok || profile.Subject == "" {
		logger.Error("Identity claims not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.SyncUser(c.Request.Context(), profile)
	if err != nil {
		respondError(c, logger, err, "Failed to sync user")
		return
	}
	logger.Info("User synced", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.UserEnvelope{Success: true, User: dto.ToUserResponse(user)})
}

// getUser godoc
// @Summary Get the signed-in user
// @Tags user
// @Produce  json
// @Success 200 {object} dto.UserEnvelope
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /user/sync [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, dto.UserEnvelope{Success: true, User: dto.ToUserResponse(user)})
}

// updatePreferences godoc
// @Summary Update invoicing preferences
// @Tags user
// @Accept  json
// @Produce  json
// @Param   preferences body dto.UpdatePreferencesRequest true "Preferences to change"
// @Success 200 {object} dto.UserEnvelope
// @Failure 400 {object} map[string]string "Invalid preference"
// @Security BearerAuth
// @Router /user/preferences [put]
func (h *userHandler) updatePreferences(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	user, err := h.userService.UpdatePreferences(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update preferences")
		return
	}
	c.JSON(http.StatusOK, dto.UserEnvelope{Success: true, User: dto.ToUserResponse(user)})
}
