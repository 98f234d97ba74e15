package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/perguntaquedoi/api/models"
	"github.com/perguntaquedoi/api/store"
	"github.com/perguntaquedoi/api/utils"
)

// StatsController reports daily participation counters. Every counter
// degrades to zero on failure; the endpoint never errors.
type StatsController struct {
	st *store.Store
}

// NewStatsController creates a new controller instance.
func NewStatsController(st *store.Store) *StatsController {
	return &StatsController{st: st}
}

// Today returns today's visit, response and reaction counts.
func (s *StatsController) Today(ctx *gin.Context) {
	date := models.DateKey(time.Now())
	responses, reactions := s.st.DailyStats(ctx.Request.Context(), date)
	visits := s.st.VisitCount(ctx.Request.Context(), date)

	utils.Success(ctx, gin.H{
		"date":      date,
		"visits":    visits,
		"responses": responses,
		"reactions": reactions,
	})
}
