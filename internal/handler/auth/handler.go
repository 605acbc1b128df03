package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-dashboard/internal/handler"
	"github.com/jwalitptl/practice-dashboard/internal/middleware"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/session"
	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/httputil"
)

type Handler struct {
	resolver *session.Resolver
}

func NewHandler(resolver *session.Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// RegisterRoutes mounts the public account endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.SignUp)
		auth.POST("/sign-in", h.SignIn)
		auth.POST("/reset-password", h.ResetPassword)
		auth.POST("/complete-reset", h.CompleteReset)
	}
}

// RegisterProtectedRoutes mounts the endpoints that need a session; r must
// already run middleware.AuthMiddleware.Authenticate.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/auth/sign-out", h.SignOut)
	r.PUT("/auth/password", h.UpdatePassword)
	r.GET("/me", h.Me)
	r.PATCH("/me", h.UpdateProfile)
}

func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpRequest
	if !handler.Bind(c, &req) {
		return
	}

	s, err := h.resolver.SignUp(c.Request.Context(), req.Email, req.Password, req.FullName, req.Role).Unwrap()
	if err != nil {
		handler.Fail(c, "account", err)
		return
	}
	httputil.RespondWithCreated(c, "account created", s)
}

func (h *Handler) SignIn(c *gin.Context) {
	var req model.SignInRequest
	if !handler.Bind(c, &req) {
		return
	}

	s, err := h.resolver.SignIn(c.Request.Context(), req.Email, req.Password).Unwrap()
	if err != nil {
		handler.Fail(c, "account", err)
		return
	}
	httputil.RespondWithSuccess(c, "signed in", s)
}

func (h *Handler) SignOut(c *gin.Context) {
	if _, err := h.resolver.SignOut(c.Request.Context()).Unwrap(); err != nil {
		handler.Fail(c, "session", err)
		return
	}
	httputil.RespondWithSuccess(c, "signed out", nil)
}

// ResetPassword always answers with the same message whether or not the
// address belongs to an account.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if !handler.Bind(c, &req) {
		return
	}

	if _, err := h.resolver.ResetPassword(c.Request.Context(), req.Email).Unwrap(); err != nil {
		handler.Fail(c, "account", err)
		return
	}
	httputil.RespondWithSuccess(c, "if the address is registered, a reset link is on its way", nil)
}

func (h *Handler) CompleteReset(c *gin.Context) {
	var req model.CompleteResetRequest
	if !handler.Bind(c, &req) {
		return
	}

	if _, err := h.resolver.CompletePasswordReset(c.Request.Context(), req.Token, req.Password).Unwrap(); err != nil {
		handler.Fail(c, "account", err)
		return
	}
	httputil.RespondWithSuccess(c, "password updated", nil)
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	var req model.UpdatePasswordRequest
	if !handler.Bind(c, &req) {
		return
	}

	if _, err := h.resolver.UpdatePassword(c.Request.Context(), req.Password).Unwrap(); err != nil {
		handler.Fail(c, "account", err)
		return
	}
	httputil.RespondWithSuccess(c, "password updated", nil)
}

// Me returns the caller's profile. A session without a profile row is
// treated as signed out.
func (h *Handler) Me(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	if profile == nil {
		handler.Fail(c, "profile", apperrors.Unauthorized(session.ErrUnauthenticated))
		return
	}
	httputil.RespondWithSuccess(c, "", profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var patch model.ProfilePatch
	if !handler.Bind(c, &patch) {
		return
	}

	profile, err := h.resolver.UpdateUserProfile(c.Request.Context(), patch).Unwrap()
	if err != nil {
		handler.Fail(c, "profile", err)
		return
	}
	httputil.RespondWithSuccess(c, "profile updated", profile)
}
