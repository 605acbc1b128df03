package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/practice-dashboard/internal/middleware"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository/memory"
	"github.com/jwalitptl/practice-dashboard/internal/resource"
	"github.com/jwalitptl/practice-dashboard/internal/session"
	pkgauth "github.com/jwalitptl/practice-dashboard/pkg/auth"
	"github.com/jwalitptl/practice-dashboard/pkg/authorize"
	"github.com/jwalitptl/practice-dashboard/pkg/security"
	"github.com/jwalitptl/practice-dashboard/pkg/validator"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

// outbox records the reset tokens that would have been mailed.
type outbox struct {
	mu     sync.Mutex
	resets map[string]string
}

func (o *outbox) SendPasswordReset(_ context.Context, emailAddr, token string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resets[emailAddr] = token
	return nil
}

func (o *outbox) SendWelcome(context.Context, string, string) error { return nil }

type fixture struct {
	router   *gin.Engine
	accounts *memory.Accounts
	mail     *outbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.RegisterBinding()

	nop := zerolog.Nop()
	issuer, err := pkgauth.NewTokenIssuer(pkgauth.Config{SigningKey: []byte("auth-handler-test-key")})
	require.NoError(t, err)

	f := &fixture{
		accounts: memory.NewAccounts(),
		mail:     &outbox{resets: map[string]string{}},
	}
	resolver := session.NewResolver(session.Deps{
		Users:    f.accounts.Users(),
		Profiles: f.accounts.Profiles(),
		Tokens:   memory.NewTokenStore(),
		Issuer:   issuer,
		Hasher:   security.NewBcryptHasher(bcrypt.MinCost),
		Mailer:   f.mail,
		Logger:   &nop,
	}, session.Config{})
	authz, err := authorize.New(resource.Policies())
	require.NoError(t, err)
	mw := middleware.NewAuthMiddleware(resolver, authz)

	h := NewHandler(resolver)
	f.router = gin.New()
	f.router.Use(middleware.ErrorHandler())
	api := f.router.Group("/api/v1")
	h.RegisterRoutes(api)
	h.RegisterProtectedRoutes(api.Group("", mw.Authenticate()))
	return f
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (f *fixture) signUp(t *testing.T, emailAddr string) session.Session {
	t.Helper()
	code, env := f.do(t, http.MethodPost, "/api/v1/auth/sign-up", "", model.SignUpRequest{
		Email: emailAddr, Password: "correct-horse-battery", FullName: "Dr. Amara Patel", Role: model.RoleDoctor,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var s session.Session
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func TestSignUpSignInAndMe(t *testing.T) {
	f := newFixture(t)
	created := f.signUp(t, "amara@clinic.test")
	require.NotEmpty(t, created.Token)
	assert.Equal(t, model.RoleDoctor, created.Profile.Role)
	assert.NotContains(t, string(mustJSON(t, created.User)), "password")

	code, env := f.do(t, http.MethodPost, "/api/v1/auth/sign-in", "", model.SignInRequest{
		Email: "Amara@Clinic.test", Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var s session.Session
	require.NoError(t, json.Unmarshal(env.Data, &s))

	code, env = f.do(t, http.MethodGet, "/api/v1/me", s.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var profile model.Profile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Dr. Amara Patel", profile.FullName)
}

func TestSignInWithWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "amara@clinic.test")

	code, env := f.do(t, http.MethodPost, "/api/v1/auth/sign-in", "", model.SignInRequest{
		Email: "amara@clinic.test", Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid email or password", env.Message)
}

func TestSignUpValidation(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/v1/auth/sign-up", "", map[string]string{
		"email": "not-an-email", "password": "short", "full_name": "X", "role": "janitor",
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Errors), `"field":"email"`)
	assert.Contains(t, string(env.Errors), `"field":"role"`)

	f.signUp(t, "amara@clinic.test")
	code, _ = f.do(t, http.MethodPost, "/api/v1/auth/sign-up", "", model.SignUpRequest{
		Email: "amara@clinic.test", Password: "correct-horse-battery", FullName: "Someone", Role: model.RoleSupport,
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestMeWithoutProfileIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	s := f.signUp(t, "amara@clinic.test")
	f.accounts.DeleteProfile(s.User.ID)

	code, _ := f.do(t, http.MethodGet, "/api/v1/me", s.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSignOutRevokesToken(t *testing.T) {
	f := newFixture(t)
	s := f.signUp(t, "amara@clinic.test")

	code, _ := f.do(t, http.MethodPost, "/api/v1/auth/sign-out", s.Token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodGet, "/api/v1/me", s.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "amara@clinic.test")

	code, unknown := f.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", model.ResetPasswordRequest{Email: "nobody@clinic.test"})
	require.Equal(t, http.StatusOK, code)
	code, known := f.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", model.ResetPasswordRequest{Email: "amara@clinic.test"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, unknown.Message, known.Message)

	token := f.mail.resets["amara@clinic.test"]
	require.NotEmpty(t, token)

	code, _ = f.do(t, http.MethodPost, "/api/v1/auth/complete-reset", "", model.CompleteResetRequest{Token: token, Password: "new-password-123"})
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodPost, "/api/v1/auth/complete-reset", "", model.CompleteResetRequest{Token: token, Password: "new-password-123"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPost, "/api/v1/auth/sign-in", "", model.SignInRequest{Email: "amara@clinic.test", Password: "new-password-123"})
	assert.Equal(t, http.StatusOK, code)
}

func TestUpdatePasswordAndProfile(t *testing.T) {
	f := newFixture(t)
	s := f.signUp(t, "amara@clinic.test")

	code, _ := f.do(t, http.MethodPut, "/api/v1/auth/password", s.Token, model.UpdatePasswordRequest{Password: "another-secret-1"})
	require.Equal(t, http.StatusOK, code)

	name := "Dr. Amara Patel-Shah"
	code, env := f.do(t, http.MethodPatch, "/api/v1/me", s.Token, model.ProfilePatch{FullName: &name})
	require.Equal(t, http.StatusOK, code, env.Message)
	var profile model.Profile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, name, profile.FullName)

	code, _ = f.do(t, http.MethodPatch, "/api/v1/me", s.Token, model.ProfilePatch{})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
