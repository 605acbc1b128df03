package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/reqctx"
	"github.com/jwalitptl/practice-dashboard/pkg/security"
)

const (
	OpSignIn        = "sign_in"
	OpSignUp        = "sign_up"
	OpSignOut       = "sign_out"
	OpResetPassword = "reset_password"
	OpCompleteReset = "complete_reset"
	OpUpdatePwd     = "update_password"
	OpUpdateProfile = "update_profile"
)

func invalidCredentials() *apperrors.AppError {
	return &apperrors.AppError{
		Code:    apperrors.ErrUnauthorized,
		Message: ErrInvalidCredentials.Error(),
		Err:     ErrInvalidCredentials,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (r *Resolver) SignIn(ctx context.Context, emailAddr, password string) (res Result[*Session]) {
	defer guard(r, OpSignIn, &res)

	user, err := r.users.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail[*Session](invalidCredentials())
		}
		return fail[*Session](fmt.Errorf("failed to load user: %w", err))
	}
	if err := r.hasher.Compare(user.PasswordHash, password); err != nil {
		return fail[*Session](invalidCredentials())
	}

	s, err := r.open(ctx, user, nil)
	if err != nil {
		return fail[*Session](err)
	}
	return ok(s)
}

// SignUp creates the auth user and its profile together and signs them in.
func (r *Resolver) SignUp(ctx context.Context, emailAddr, password, fullName string, role model.Role) (res Result[*Session]) {
	defer guard(r, OpSignUp, &res)

	if !role.Valid() {
		return fail[*Session](apperrors.Validation(fmt.Sprintf("unknown role %q", role), nil))
	}
	if len(r.signUp) > 0 && !slices.Contains(r.signUp, role) {
		return fail[*Session](apperrors.Forbidden(fmt.Sprintf("%s accounts cannot be created by sign-up", role), nil))
	}
	hash, err := r.hashNew(password)
	if err != nil {
		return fail[*Session](err)
	}

	user := &model.AuthUser{Email: normalizeEmail(emailAddr), PasswordHash: hash}
	profile := &model.Profile{FullName: strings.TrimSpace(fullName), Role: role}
	if err := r.users.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return fail[*Session](apperrors.Conflict("an account with this email already exists", err))
		}
		return fail[*Session](fmt.Errorf("failed to create account: %w", err))
	}

	if r.mailer != nil {
		if err := r.mailer.SendWelcome(ctx, user.Email, profile.FullName); err != nil {
			r.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to send welcome mail")
		}
	}

	s, err := r.open(ctx, user, profile)
	if err != nil {
		return fail[*Session](err)
	}
	return ok(s)
}

func (r *Resolver) open(ctx context.Context, user *model.AuthUser, profile *model.Profile) (*Session, error) {
	if profile == nil {
		p, err := r.profiles.GetByID(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = p
	}

	var role string
	if profile != nil {
		role = string(profile.Role)
	}
	token, claims, err := r.issuer.Issue(user.ID, user.Email, role)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		User:      user,
		Profile:   profile,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the current token until it would have expired anyway.
func (r *Resolver) SignOut(ctx context.Context) (res Result[struct{}]) {
	defer guard(r, OpSignOut, &res)

	token, found := reqctx.TokenFromContext(ctx)
	if !found {
		return fail[struct{}](apperrors.Unauthorized(ErrUnauthenticated))
	}
	claims, err := r.issuer.Parse(token)
	if err != nil {
		return fail[struct{}](apperrors.Unauthorized(fmt.Errorf("%w: %v", ErrUnauthenticated, err)))
	}

	if err := r.tokens.Revoke(ctx, claims.ID, claims.Remaining(r.now())); err != nil {
		return fail[struct{}](fmt.Errorf("failed to revoke token: %w", err))
	}
	return ok(struct{}{})
}

// ResetPassword mails a reset token. Unknown addresses succeed silently so
// the endpoint cannot be used to discover accounts.
func (r *Resolver) ResetPassword(ctx context.Context, emailAddr string) (res Result[struct{}]) {
	defer guard(r, OpResetPassword, &res)

	user, err := r.users.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			r.logger.Info().Msg("password reset requested for unknown email")
			return ok(struct{}{})
		}
		return fail[struct{}](fmt.Errorf("failed to load user: %w", err))
	}

	token := uuid.NewString()
	if err := r.tokens.SaveResetToken(ctx, token, user.ID, r.resetTTL); err != nil {
		return fail[struct{}](fmt.Errorf("failed to save reset token: %w", err))
	}
	if r.mailer == nil {
		r.logger.Warn().Str("user_id", user.ID).Msg("no mailer configured, reset mail not sent")
		return ok(struct{}{})
	}
	if err := r.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fail[struct{}](fmt.Errorf("failed to send reset mail: %w", err))
	}
	return ok(struct{}{})
}

// CompletePasswordReset sets a new password using a mailed reset token.
func (r *Resolver) CompletePasswordReset(ctx context.Context, token, password string) (res Result[struct{}]) {
	defer guard(r, OpCompleteReset, &res)

	hash, err := r.hashNew(password)
	if err != nil {
		return fail[struct{}](err)
	}
	userID, err := r.tokens.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidToken) {
			return fail[struct{}](apperrors.BadRequest("reset link is invalid or has expired", err))
		}
		return fail[struct{}](fmt.Errorf("failed to consume reset token: %w", err))
	}
	if err := r.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fail[struct{}](fmt.Errorf("failed to update password: %w", err))
	}
	return ok(struct{}{})
}

// UpdatePassword changes the signed-in user's password.
func (r *Resolver) UpdatePassword(ctx context.Context, password string) (res Result[struct{}]) {
	defer guard(r, OpUpdatePwd, &res)

	user := r.GetCurrentUser(ctx)
	if user == nil {
		return fail[struct{}](apperrors.Unauthorized(ErrUnauthenticated))
	}
	hash, err := r.hashNew(password)
	if err != nil {
		return fail[struct{}](err)
	}
	if err := r.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fail[struct{}](fmt.Errorf("failed to update password: %w", err))
	}
	return ok(struct{}{})
}

func (r *Resolver) hashNew(password string) (string, error) {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrPasswordTooShort):
			return "", apperrors.Validation(
				fmt.Sprintf("password must be at least %d characters", security.MinPasswordLen), err)
		case errors.Is(err, security.ErrPasswordTooLong):
			return "", apperrors.Validation(
				fmt.Sprintf("password must be at most %d characters", security.MaxPasswordLen), err)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// UpdateUserProfile applies a partial update to the caller's own profile.
func (r *Resolver) UpdateUserProfile(ctx context.Context, patch model.ProfilePatch) (res Result[*model.Profile]) {
	defer guard(r, OpUpdateProfile, &res)

	user := r.GetCurrentUser(ctx)
	if user == nil {
		return fail[*model.Profile](apperrors.Unauthorized(ErrUnauthenticated))
	}
	if patch.Empty() {
		return fail[*model.Profile](apperrors.Validation("nothing to update", nil))
	}

	profile, err := r.profiles.Update(ctx, user.ID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail[*model.Profile](apperrors.NotFound("profile", err))
		}
		return fail[*model.Profile](fmt.Errorf("failed to update profile: %w", err))
	}
	return ok(profile)
}
