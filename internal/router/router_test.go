package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/practice-dashboard/internal/email"
	authhandler "github.com/jwalitptl/practice-dashboard/internal/handler/auth"
	"github.com/jwalitptl/practice-dashboard/internal/handler/entity"
	"github.com/jwalitptl/practice-dashboard/internal/handler/health"
	"github.com/jwalitptl/practice-dashboard/internal/middleware"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository/memory"
	"github.com/jwalitptl/practice-dashboard/internal/resource"
	"github.com/jwalitptl/practice-dashboard/internal/session"
	"github.com/jwalitptl/practice-dashboard/pkg/auth"
	"github.com/jwalitptl/practice-dashboard/pkg/authorize"
	"github.com/jwalitptl/practice-dashboard/pkg/security"
)

type fixture struct {
	engine   *gin.Engine
	resolver *session.Resolver
	registry *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	nop := zerolog.Nop()
	issuer, err := auth.NewTokenIssuer(auth.Config{SigningKey: []byte("router-test-key")})
	require.NoError(t, err)
	accounts := memory.NewAccounts()
	resolver := session.NewResolver(session.Deps{
		Users:    accounts.Users(),
		Profiles: accounts.Profiles(),
		Tokens:   memory.NewTokenStore(),
		Issuer:   issuer,
		Hasher:   security.NewBcryptHasher(bcrypt.MinCost),
		Mailer:   email.NewLogService(&nop),
		Logger:   &nop,
	}, session.Config{})
	authz, err := authorize.New(resource.Policies())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	opts := entity.Options{Logger: &nop}
	r := NewRouter(middleware.NewAuthMiddleware(resolver, authz), Handlers{
		Health:  health.NewHandler(map[string]health.Check{"memory": func(context.Context) error { return nil }}, reg),
		Account: authhandler.NewHandler(resolver),
		Resources: []ResourceHandler{
			entity.NewHandler(resource.InvoiceDefinition(), memory.NewInvoiceStore(), opts),
			entity.NewHandler(resource.ProductDefinition(), memory.NewProductStore(), opts),
		},
	}, RouterConfig{
		RateLimit:     middleware.DefaultRateLimiterConfig(),
		CORSConfig:    middleware.DefaultCORSConfig(),
		Timeout:       middleware.DefaultTimeoutConfig(),
		Security:      middleware.DefaultSecurityConfig(),
		SizeLimit:     middleware.DefaultSizeLimitConfig(),
		MetricsPrefix: "dashboard_http",
		Registerer:    reg,
	})
	r.Setup()

	return &fixture{engine: r.Engine(), resolver: resolver, registry: reg}
}

func (f *fixture) token(t *testing.T, emailAddr string, role model.Role) string {
	t.Helper()
	s, err := f.resolver.SignUp(context.Background(), emailAddr, "correct-horse-battery", "Router Test", role).Unwrap()
	require.NoError(t, err)
	return s.Token
}

func (f *fixture) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestPublicRoutesCarryVersionAndSecurityHeaders(t *testing.T) {
	f := newFixture(t)

	w := f.get("/api/v1/health/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, APIVersion, w.Header().Get("X-API-Version"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))

	w = f.get("/api/v1/health/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResourcesRequireSession(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.get("/api/v1/products", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.get("/api/v1/me", "").Code)
}

func TestAdminPagesRedirectOtherRoles(t *testing.T) {
	f := newFixture(t)
	doctor := f.token(t, "doctor@clinic.test", model.RoleDoctor)
	admin := f.token(t, "admin@clinic.test", model.RoleAdmin)

	w := f.get("/api/v1/invoices", doctor)
	require.Equal(t, http.StatusForbidden, w.Code)
	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, middleware.RedirectPath, body.Data["redirect"])

	assert.Equal(t, http.StatusOK, f.get("/api/v1/invoices", admin).Code)
}

func TestNonAdminPagesUsePolicy(t *testing.T) {
	f := newFixture(t)
	support := f.token(t, "support@clinic.test", model.RoleSupport)
	doctor := f.token(t, "doctor@clinic.test", model.RoleDoctor)

	assert.Equal(t, http.StatusOK, f.get("/api/v1/products", support).Code)
	assert.Equal(t, http.StatusForbidden, f.get("/api/v1/products", doctor).Code)
	assert.Equal(t, http.StatusOK, f.get("/api/v1/me", doctor).Code)
}

func TestRequestMetrics(t *testing.T) {
	f := newFixture(t)
	f.get("/api/v1/health/live", "")
	f.get("/api/v1/nowhere", "")

	count, err := testutil.GatherAndCount(f.registry, "dashboard_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(f.registry, "dashboard_http_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
