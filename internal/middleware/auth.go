package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/session"
	"github.com/jwalitptl/practice-dashboard/pkg/authorize"
	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/httputil"
	"github.com/jwalitptl/practice-dashboard/pkg/reqctx"
)

const (
	ContextSession = "session"

	// RedirectPath is where a caller lacking the required role is sent.
	RedirectPath = "/dashboard"
)

type AuthMiddleware struct {
	resolver *session.Resolver
	authz    *authorize.Authorizer
}

func NewAuthMiddleware(resolver *session.Resolver, authz *authorize.Authorizer) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		authz:    authz,
	}
}

// Authenticate resolves the bearer token into a session and stores it on
// both the gin context and the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse("missing authorization header"))
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse("invalid authorization format"))
			return
		}

		ctx := reqctx.WithToken(c.Request.Context(), token)
		s, err := m.resolver.Resolve(ctx)
		if err != nil {
			if errors.Is(err, session.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse("invalid or expired session"))
				return
			}
			httputil.RespondWithError(c, err)
			return
		}

		principal := reqctx.Principal{UserID: s.User.ID}
		if s.Profile != nil {
			principal.Role = string(s.Profile.Role)
		}
		c.Request = c.Request.WithContext(reqctx.WithPrincipal(ctx, principal))
		c.Set(ContextSession, s)
		c.Next()
	}
}

// RequireRole lets through only callers whose profile has one of roles.
// Everyone else gets a 403 carrying a redirect hint.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := CurrentProfile(c)
		if profile == nil || !slices.Contains(roles, profile.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, &httputil.Response{
				Status:  httputil.StatusError,
				Message: "access denied",
				Data:    gin.H{"redirect": RedirectPath},
			})
			return
		}
		c.Next()
	}
}

// Authorize checks the caller's role against the policy for resource. GET
// and HEAD need read access, everything else write access.
func (m *AuthMiddleware) Authorize(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := CurrentProfile(c)
		if profile == nil {
			httputil.RespondWithError(c, apperrors.Forbidden("a profile is required", nil))
			return
		}

		action := authorize.ActionForMethod(c.Request.Method)
		if err := m.authz.MustAllow(string(profile.Role), resource, action); err != nil {
			if errors.Is(err, authorize.ErrForbidden) {
				httputil.RespondWithError(c, apperrors.Forbidden("permission denied", err))
				return
			}
			httputil.RespondWithError(c, err)
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session stored by Authenticate.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

func CurrentProfile(c *gin.Context) *model.Profile {
	if s := CurrentSession(c); s != nil {
		return s.Profile
	}
	return nil
}
