package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perguntaquedoi/api/lifecycle"
	"github.com/perguntaquedoi/api/middleware"
	"github.com/perguntaquedoi/api/models"
	"github.com/perguntaquedoi/api/store"
	"github.com/perguntaquedoi/api/utils"
)

// SessionController exposes the full session bootstrap as a single call: the
// client gets question, answered state, history and board in one snapshot.
type SessionController struct {
	st       *store.Store
	disabled bool
	runner   lifecycle.Runner
}

// NewSessionController creates a controller wired to the given sources. A
// zero retry policy falls back to the default.
func NewSessionController(st *store.Store, provider *QuestionProvider, disableAnonymous bool, retry lifecycle.RetryPolicy, log *zap.SugaredLogger) *SessionController {
	if retry.Attempts == 0 && retry.Delay == 0 {
		retry = lifecycle.DefaultRetryPolicy
	}
	return &SessionController{
		st:       st,
		disabled: disableAnonymous,
		runner: lifecycle.Runner{
			Question: provider,
			History:  st,
			Board:    st,
			Retry:    retry,
			Log:      log,
		},
	}
}

// identityBinding ties the runner's identity step to the request's principal
// and the anonymous sign-in toggle.
type identityBinding struct {
	st       *store.Store
	id       string
	disabled bool
}

func (b identityBinding) EnsureIdentity(ctx context.Context) (models.Identity, error) {
	if b.disabled {
		return models.Identity{}, store.ErrAuthDisabled
	}
	return b.st.EnsureIdentity(ctx, b.id)
}

// State resolves the lifecycle snapshot for the authenticated identity. When
// anonymous sign-ins are disabled the snapshot reports that state instead of
// erroring, so the client can render the reconfiguration prompt.
func (s *SessionController) State(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	run := s.runner
	run.Identity = identityBinding{st: s.st, id: userID, disabled: s.disabled}

	snap, err := run.Bootstrap(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to resolve session state")
		return
	}
	utils.Success(ctx, snap)
}
