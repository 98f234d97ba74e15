package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/perguntaquedoi/api/utils"
)

// QuestionController serves the question of the day.
type QuestionController struct {
	provider *QuestionProvider
}

// NewQuestionController creates a new controller instance.
func NewQuestionController(provider *QuestionProvider) *QuestionController {
	return &QuestionController{provider: provider}
}

// Today returns today's question. This endpoint cannot fail: the provider
// degrades through generation to a hardcoded constant.
func (q *QuestionController) Today(ctx *gin.Context) {
	question := q.provider.TodayQuestion(ctx.Request.Context())
	utils.Success(ctx, gin.H{"question": question})
}
