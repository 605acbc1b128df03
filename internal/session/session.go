// Package session resolves the caller of a request into an auth user and a
// dashboard profile, and implements the account operations (sign in/up/out,
// password reset, profile update) as pass-throughs over the repositories.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/practice-dashboard/internal/email"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/pkg/auth"
	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/reqctx"
	"github.com/jwalitptl/practice-dashboard/pkg/security"
)

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const defaultResetTTL = time.Hour

// Session is an authenticated caller.
type Session struct {
	Token     string          `json:"token"`
	User      *model.AuthUser `json:"user"`
	Profile   *model.Profile  `json:"profile"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Result is the data-or-error pair every account operation returns.
type Result[T any] struct {
	Data T
	Err  error
}

func (r Result[T]) Unwrap() (T, error) { return r.Data, r.Err }

// Observer receives the outcome of each account operation.
type Observer interface {
	ObserveAuth(event string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveAuth(string, error) {}

type Config struct {
	ResetTokenTTL time.Duration
	// SignUpRoles limits the roles open to self-service sign-up. Empty
	// allows every role.
	SignUpRoles []model.Role
}

type Resolver struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	tokens   repository.TokenStore
	issuer   *auth.TokenIssuer
	hasher   security.PasswordHasher
	mailer   email.Service
	observer Observer
	logger   *zerolog.Logger
	resetTTL time.Duration
	signUp   []model.Role
	now      func() time.Time
}

type Deps struct {
	Users    repository.UserRepository
	Profiles repository.ProfileRepository
	Tokens   repository.TokenStore
	Issuer   *auth.TokenIssuer
	Hasher   security.PasswordHasher
	Mailer   email.Service
	Observer Observer
	Logger   *zerolog.Logger
}

func NewResolver(deps Deps, cfg Config) *Resolver {
	r := &Resolver{
		users:    deps.Users,
		profiles: deps.Profiles,
		tokens:   deps.Tokens,
		issuer:   deps.Issuer,
		hasher:   deps.Hasher,
		mailer:   deps.Mailer,
		observer: deps.Observer,
		logger:   deps.Logger,
		resetTTL: cfg.ResetTokenTTL,
		signUp:   cfg.SignUpRoles,
		now:      time.Now,
	}
	if r.observer == nil {
		r.observer = nopObserver{}
	}
	if r.logger == nil {
		l := zerolog.Nop()
		r.logger = &l
	}
	if r.resetTTL <= 0 {
		r.resetTTL = defaultResetTTL
	}
	return r
}

// Resolve validates the bearer token carried by ctx and loads the user and
// profile behind it. The profile is best effort: a missing row or a failed
// lookup leaves Session.Profile nil.
func (r *Resolver) Resolve(ctx context.Context) (*Session, error) {
	token, found := reqctx.TokenFromContext(ctx)
	if !found {
		return nil, ErrUnauthenticated
	}

	claims, err := r.issuer.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	revoked, err := r.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}

	user, err := r.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	s := &Session{Token: token, User: user, ExpiresAt: claims.ExpiresAt.Time}
	profile, err := r.profiles.GetByID(ctx, user.ID)
	switch {
	case err == nil:
		s.Profile = profile
	case !errors.Is(err, repository.ErrNotFound):
		r.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to load profile")
	}
	return s, nil
}

// GetCurrentUser returns the authenticated user or nil. It never fails.
func (r *Resolver) GetCurrentUser(ctx context.Context) *model.AuthUser {
	if s := r.current(ctx); s != nil {
		return s.User
	}
	return nil
}

// GetCurrentUserProfile returns the caller's profile, or nil when there is
// no session, no profile row, or the lookup fails.
func (r *Resolver) GetCurrentUserProfile(ctx context.Context) *model.Profile {
	if s := r.current(ctx); s != nil {
		return s.Profile
	}
	return nil
}

func (r *Resolver) current(ctx context.Context) (s *Session) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error().Interface("panic", p).Msg("recovered while resolving session")
			s = nil
		}
	}()

	s, err := r.Resolve(ctx)
	if err != nil {
		if !errors.Is(err, ErrUnauthenticated) {
			r.logger.Error().Err(err).Msg("failed to resolve session")
		}
		return nil
	}
	return s
}

// guard converts a panic in a collaborator into an internal error result.
func guard[T any](r *Resolver, op string, res *Result[T]) {
	if p := recover(); p != nil {
		r.logger.Error().Str("operation", op).Interface("panic", p).Msg("recovered from panic")
		var zero T
		res.Data = zero
		res.Err = apperrors.Internal(fmt.Errorf("%s: panic: %v", op, p))
	}
	r.observer.ObserveAuth(op, res.Err)
}

func ok[T any](data T) Result[T] { return Result[T]{Data: data} }

func fail[T any](err error) Result[T] { return Result[T]{Err: err} }
