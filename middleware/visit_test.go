package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/perguntaquedoi/api/models"
)

func newVisitDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Visit{}))
	return db
}

func visitTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(VisitRecorder(db))
	r.GET("/api/v1/questions/today", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/stats", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func countFor(t *testing.T, db *gorm.DB, date string) int64 {
	t.Helper()
	var v models.Visit
	err := db.First(&v, "date = ?", date).Error
	if err != nil {
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		return 0
	}
	return v.Count
}

func TestVisitRecorderCountsQuestionFetches(t *testing.T) {
	db := newVisitDB(t)
	r := visitTestRouter(db)
	today := models.DateKey(time.Now())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/questions/today", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.EqualValues(t, 3, countFor(t, db, today))
}

func TestVisitRecorderIgnoresOtherPaths(t *testing.T) {
	db := newVisitDB(t)
	r := visitTestRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.EqualValues(t, 0, countFor(t, db, models.DateKey(time.Now())))
}
