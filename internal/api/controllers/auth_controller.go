package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"redcreativa/internal/models/request_models"
	"redcreativa/internal/models/response_models"
	"redcreativa/internal/services"
	"redcreativa/pkg/middleware"
	"redcreativa/pkg/utils"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

func authContext(c *gin.Context) (*services.AuthContext, bool) {
	authCtx := middleware.GetAuthContext(c)
	if authCtx == nil {
		utils.RespondError(c, http.StatusInternalServerError, "Auth context missing")
		return nil, false
	}
	return authCtx, true
}

// ToAuthState flattens a snapshot into the shape every auth endpoint returns.
func ToAuthState(snap services.AuthSnapshot, now time.Time) response_models.AuthState {
	state := response_models.AuthState{
		IsAuthenticated:          snap.IsAuthenticated,
		IsLoading:                snap.IsLoading,
		IsDemo:                   snap.IsDemo,
		PendingEmailVerification: snap.PendingEmail != "",
		PendingEmail:             snap.PendingEmail,
	}
	state.User = response_models.NewUserProfile(snap.User, now)
	if s := snap.Session; s != nil && !snap.IsDemo {
		expires := s.ExpiresAt
		state.AccessToken = s.AccessToken
		state.ExpiresAt = &expires
	}
	return state
}

func respondAuthState(c *gin.Context, code int, authCtx *services.AuthContext, message string) {
	utils.RespondWithStatus(c, code, ToAuthState(authCtx.Snapshot(), time.Now()), message)
}

// Signup godoc
// @Summary Register a new account
// @Description Creates the identity and, when confirmation is required, sends the confirmation email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Signup payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /auth/signup [post]
func (a *AuthController) Signup(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	authCtx, ok := authContext(c)
	if !ok {
		return
	}

	pending, err := authCtx.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	message := "Account created successfully"
	if pending {
		message = "Check your inbox to confirm your email"
	}
	respondAuthState(c, http.StatusCreated, authCtx, message)
}

// Login godoc
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	authCtx, ok := authContext(c)
	if !ok {
		return
	}

	if err := authCtx.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondAuthState(c, http.StatusOK, authCtx, "Login successful")
}

// Logout godoc
// @Summary Sign out and leave demo mode
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /auth/logout [post]
func (a *AuthController) Logout(c *gin.Context) {
	authCtx, ok := authContext(c)
	if !ok {
		return
	}
	if err := authCtx.Logout(c.Request.Context()); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondAuthState(c, http.StatusOK, authCtx, "Logged out")
}

// StartDemo godoc
// @Summary Enter read-only demo mode
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.DemoRequest false "Demo display name"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /auth/demo [post]
func (a *AuthController) StartDemo(c *gin.Context) {
	var req request_models.DemoRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}
	authCtx, ok := authContext(c)
	if !ok {
		return
	}

	if err := authCtx.StartDemo(c.Request.Context(), req.Name); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondAuthState(c, http.StatusOK, authCtx, "Demo mode started")
}

// ConfirmEmail godoc
// @Summary Confirm an email address
// @Tags Auth
// @Produce json
// @Param token query string true "Confirmation token"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /auth/confirm [get]
func (a *AuthController) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, "token is required")
		return
	}
	authCtx, ok := authContext(c)
	if !ok {
		return
	}

	if err := authCtx.ConfirmEmail(c.Request.Context(), token); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondAuthState(c, http.StatusOK, authCtx, "Email confirmed")
}

// ResendVerification godoc
// @Summary Resend the confirmation email
// @Description Uses the pending email of this client when none is given
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.ResendVerificationRequest false "Email"
// @Success 200 {object} utils.APIResponse
// @Router /auth/resend [post]
func (a *AuthController) ResendVerification(c *gin.Context) {
	var req request_models.ResendVerificationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}
	authCtx, ok := authContext(c)
	if !ok {
		return
	}

	if err := authCtx.ResendVerification(c.Request.Context(), req.Email); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "If the address is pending confirmation, a new email was sent")
}

// Me godoc
// @Summary Current auth state
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /auth/me [get]
func (a *AuthController) Me(c *gin.Context) {
	authCtx, ok := authContext(c)
	if !ok {
		return
	}
	if err := authCtx.RefreshProfile(c.Request.Context()); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondAuthState(c, http.StatusOK, authCtx, "")
}
