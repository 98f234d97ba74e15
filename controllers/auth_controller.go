package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/perguntaquedoi/api/middleware"
	"github.com/perguntaquedoi/api/store"
	"github.com/perguntaquedoi/api/utils"
)

// Anonymous sessions outlive single visits so a device keeps its history.
const sessionTokenTTL = 30 * 24 * time.Hour

// AuthController provisions and resolves anonymous principals.
type AuthController struct {
	store *store.Store
	// disabled mirrors the DisableAnonymousSignIn configuration toggle.
	disabled bool
}

// NewAuthController creates a new controller instance.
func NewAuthController(st *store.Store, disableAnonymous bool) *AuthController {
	return &AuthController{store: st, disabled: disableAnonymous}
}

// Anonymous establishes the device's anonymous identity. A still-valid
// bearer token reuses the same principal; otherwise a fresh one is
// provisioned. When provisioning is disabled by configuration the endpoint
// reports a distinct, user-actionable state instead of a retryable error.
func (a *AuthController) Anonymous(ctx *gin.Context) {
	if a.disabled {
		utils.Error(ctx, http.StatusServiceUnavailable, 50310,
			"anonymous sign-ins are disabled; enable them in the service configuration and retry")
		return
	}

	existingID := bearerIdentity(ctx)

	ident, err := a.store.EnsureIdentity(ctx.Request.Context(), existingID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to provision identity")
		return
	}

	token, err := utils.GenerateToken(ident.ID, sessionTokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":    token,
		"identity": ident,
	})
}

// Me returns the authenticated identity.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	ident, err := a.store.EnsureIdentity(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load identity")
		return
	}
	utils.Success(ctx, gin.H{"identity": ident})
}

// bearerIdentity extracts the principal ID from a presented token, if any.
// Invalid or expired tokens are ignored; the device simply gets a new
// identity.
func bearerIdentity(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	claims, err := utils.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return ""
	}
	return claims.UserID
}
