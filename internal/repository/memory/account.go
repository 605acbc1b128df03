package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
)

// Accounts keeps auth users and their profiles together so sign-up can
// create both atomically. Use Users and Profiles for the repository views.
type Accounts struct {
	mu    sync.Mutex
	items *cache.Cache
	now   func() time.Time
}

func NewAccounts() *Accounts {
	return &Accounts{
		items: cache.New(cache.NoExpiration, 0),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func userKey(id string) string     { return "user:" + id }
func profileKey(id string) string  { return "profile:" + id }
func emailKey(email string) string { return "email:" + strings.ToLower(email) }

func (a *Accounts) Users() repository.UserRepository       { return accountUsers{a} }
func (a *Accounts) Profiles() repository.ProfileRepository { return accountProfiles{a} }

// PutProfile stores or replaces a profile row directly.
func (a *Accounts) PutProfile(p model.Profile) {
	a.items.Set(profileKey(p.ID), p, cache.NoExpiration)
}

// DeleteProfile removes the profile row of id, leaving the user in place.
func (a *Accounts) DeleteProfile(id string) {
	a.items.Delete(profileKey(id))
}

type accountUsers struct{ a *Accounts }

func (u accountUsers) GetByID(ctx context.Context, id string) (*model.AuthUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := u.a.items.Get(userKey(id))
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := v.(model.AuthUser)
	return &user, nil
}

func (u accountUsers) GetByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, ok := u.a.items.Get(emailKey(email))
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.GetByID(ctx, id.(string))
}

func (u accountUsers) CreateWithProfile(ctx context.Context, user *model.AuthUser, profile *model.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.a.mu.Lock()
	defer u.a.mu.Unlock()

	if _, taken := u.a.items.Get(emailKey(user.Email)); taken {
		return repository.ErrDuplicateEmail
	}

	now := u.a.now()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	profile.ID = user.ID
	profile.Email = user.Email
	profile.CreatedAt, profile.UpdatedAt = now, now

	u.a.items.Set(userKey(user.ID), *user, cache.NoExpiration)
	u.a.items.Set(emailKey(user.Email), user.ID, cache.NoExpiration)
	u.a.items.Set(profileKey(profile.ID), *profile, cache.NoExpiration)
	return nil
}

func (u accountUsers) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.a.mu.Lock()
	defer u.a.mu.Unlock()

	v, ok := u.a.items.Get(userKey(id))
	if !ok {
		return repository.ErrNotFound
	}
	user := v.(model.AuthUser)
	user.PasswordHash = passwordHash
	user.UpdatedAt = u.a.now()
	u.a.items.Set(userKey(id), user, cache.NoExpiration)
	return nil
}

type accountProfiles struct{ a *Accounts }

func (p accountProfiles) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := p.a.items.Get(profileKey(id))
	if !ok {
		return nil, repository.ErrNotFound
	}
	profile := v.(model.Profile)
	return &profile, nil
}

func (p accountProfiles) Update(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.a.mu.Lock()
	defer p.a.mu.Unlock()

	v, ok := p.a.items.Get(profileKey(id))
	if !ok {
		return nil, repository.ErrNotFound
	}
	profile := v.(model.Profile)
	if patch.FullName != nil {
		profile.FullName = *patch.FullName
	}
	if patch.AvatarURL != nil {
		profile.AvatarURL = patch.AvatarURL
	}
	profile.UpdatedAt = p.a.now()
	p.a.items.Set(profileKey(id), profile, cache.NoExpiration)
	return &profile, nil
}
