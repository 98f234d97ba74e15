package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/perguntaquedoi/api/middleware"
	"github.com/perguntaquedoi/api/models"
	"github.com/perguntaquedoi/api/store"
	"github.com/perguntaquedoi/api/utils"
)

// ReactionController records reactions on board responses.
type ReactionController struct {
	st *store.Store
}

// NewReactionController creates a new controller instance.
func NewReactionController(st *store.Store) *ReactionController {
	return &ReactionController{st: st}
}

// Create appends a reaction to a response. Reactions are append-only: the
// same user reacting again adds another row to the tally.
func (r *ReactionController) Create(ctx *gin.Context) {
	responseID := ctx.Param("id")
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Type string `json:"type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	if !models.ValidReactionType(req.Type) {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid reaction type")
		return
	}

	exists, err := r.st.ResponseExists(ctx.Request.Context(), responseID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to record reaction")
		return
	}
	if !exists {
		utils.Error(ctx, http.StatusNotFound, 40402, "response not found")
		return
	}

	reaction := models.Reaction{
		ResponseID: responseID,
		UserID:     userID,
		Type:       req.Type,
	}
	if !r.st.AddReaction(ctx.Request.Context(), reaction) {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to record reaction")
		return
	}

	utils.InvalidateByPrefix("cache:board:")
	utils.Success(ctx, gin.H{"recorded": true})
}
