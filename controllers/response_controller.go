package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/perguntaquedoi/api/middleware"
	"github.com/perguntaquedoi/api/models"
	"github.com/perguntaquedoi/api/store"
	"github.com/perguntaquedoi/api/utils"
)

const (
	minContentLen = 5
	maxContentLen = 500
)

// responseStore is the slice of the persistence layer this controller needs.
type responseStore interface {
	SaveResponse(ctx context.Context, resp models.Response) (models.Response, error)
	UpdateIdentityDefaults(ctx context.Context, id, name, pseudonym string)
	HasAnswered(ctx context.Context, userID, questionID string) (bool, error)
	Responses(ctx context.Context, questionID, viewerID string) ([]models.Response, error)
	UserHistory(ctx context.Context, userID string) []models.Response
	FlagResponse(ctx context.Context, responseID string) error
}

var _ responseStore = (*store.Store)(nil)

// ResponseController manages answers to the daily question: submission, the
// collective board, private history and flagging.
type ResponseController struct {
	st responseStore
}

// NewResponseController creates a new controller instance.
func NewResponseController(st responseStore) *ResponseController {
	return &ResponseController{st: st}
}

// Create submits the user's answer to a question. At most one answer per
// (user, question) can ever commit; a duplicate attempt converges to the
// already-answered outcome instead of producing a second row.
func (r *ResponseController) Create(ctx *gin.Context) {
	var req struct {
		QuestionID    string `json:"question_id" binding:"required"`
		Content       string `json:"content" binding:"required"`
		DisplayMode   string `json:"display_mode"`
		UserName      string `json:"user_name"`
		UserPseudonym string `json:"user_pseudonym"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if len([]rune(content)) < minContentLen {
		utils.Error(ctx, http.StatusBadRequest, 40021, "content must be at least 5 characters")
		return
	}
	if len([]rune(content)) > maxContentLen {
		utils.Error(ctx, http.StatusBadRequest, 40022, "content must be at most 500 characters")
		return
	}

	displayMode := req.DisplayMode
	if displayMode == "" {
		displayMode = models.DisplayModeAnonymous
	}
	if !models.ValidDisplayMode(displayMode) {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid display mode")
		return
	}

	resp := models.Response{
		QuestionID:  req.QuestionID,
		UserID:      userID,
		Content:     content,
		DisplayMode: displayMode,
	}
	switch displayMode {
	case models.DisplayModeRealName:
		resp.UserName = strings.TrimSpace(req.UserName)
	case models.DisplayModePseudonym:
		resp.UserPseudonym = strings.TrimSpace(req.UserPseudonym)
	}

	saved, err := r.st.SaveResponse(ctx.Request.Context(), resp)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyAnswered):
			// Expected, convergent: the user already answered, possibly from
			// a stale client. The store still holds the first content.
			utils.Error(ctx, http.StatusConflict, 40901, "already answered today's question")
		case errors.Is(err, store.ErrBoardPreparing):
			utils.Warning(ctx, 20001,
				"your response was received, but the collective board is still preparing; reload shortly", nil)
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50020, err.Error())
		}
		return
	}

	if resp.UserName != "" || resp.UserPseudonym != "" {
		r.st.UpdateIdentityDefaults(ctx.Request.Context(), userID, resp.UserName, resp.UserPseudonym)
	}
	utils.InvalidateByPrefix("cache:board:" + req.QuestionID)

	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"response": saved})
}

// ListForQuestion returns the collective board for a question. A viewer who
// has not answered yet receives an empty list; that is the normal
// pre-answer condition, not an error. Read failures also degrade to empty
// so the view is always renderable.
func (r *ResponseController) ListForQuestion(ctx *gin.Context) {
	questionID := ctx.Param("id")
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	answered, err := r.st.HasAnswered(ctx.Request.Context(), userID, questionID)
	if err != nil || !answered {
		utils.Success(ctx, gin.H{"answered": false, "responses": []models.Response{}})
		return
	}

	cacheKey := "cache:board:" + questionID
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	responses, err := r.st.Responses(ctx.Request.Context(), questionID, userID)
	if err != nil {
		utils.Success(ctx, gin.H{"answered": true, "responses": []models.Response{}})
		return
	}

	payload := gin.H{"answered": true, "responses": responses}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, payload)
}

// MyHistory returns the authenticated user's own responses, newest first,
// including flagged ones.
func (r *ResponseController) MyHistory(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	history := r.st.UserHistory(ctx.Request.Context(), userID)
	utils.Success(ctx, gin.H{"responses": history})
}

// Flag reports a response, hiding it from the collective board. The
// author's private history keeps it.
func (r *ResponseController) Flag(ctx *gin.Context) {
	responseID := ctx.Param("id")
	if _, ok := middleware.UserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	err := r.st.FlagResponse(ctx.Request.Context(), responseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "response not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to flag response")
		return
	}

	utils.InvalidateByPrefix("cache:board:")
	utils.Success(ctx, gin.H{"flagged": true})
}
