package session

import (
	"context"
	"sync"

	"github.com/jwalitptl/practice-dashboard/internal/email"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
)

type mockUserRepository struct {
	mu     sync.Mutex
	byID   map[string]*model.AuthUser
	create func(ctx context.Context, user *model.AuthUser, profile *model.Profile) error

	GetByEmailFunc func(ctx context.Context, email string) (*model.AuthUser, error)
}

var _ repository.UserRepository = (*mockUserRepository)(nil)

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{byID: map[string]*model.AuthUser{}}
}

func (m *mockUserRepository) put(u *model.AuthUser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = u
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*model.AuthUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) CreateWithProfile(ctx context.Context, user *model.AuthUser, profile *model.Profile) error {
	if m.create != nil {
		return m.create(ctx, user, profile)
	}
	if _, err := m.GetByEmail(ctx, user.Email); err == nil {
		return repository.ErrDuplicateEmail
	}
	user.ID = "user-" + user.Email
	profile.ID = user.ID
	profile.Email = user.Email
	m.put(user)
	return nil
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type mockProfileRepository struct {
	GetByIDFunc func(ctx context.Context, id string) (*model.Profile, error)
	UpdateFunc  func(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error)
}

var _ repository.ProfileRepository = (*mockProfileRepository)(nil)

func (m *mockProfileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockProfileRepository) Update(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil, repository.ErrNotFound
}

type mockMailer struct {
	resets map[string]string
}

var _ email.Service = (*mockMailer)(nil)

func (m *mockMailer) SendPasswordReset(_ context.Context, to string, token string) error {
	if m.resets == nil {
		m.resets = map[string]string{}
	}
	m.resets[to] = token
	return nil
}

func (m *mockMailer) SendWelcome(context.Context, string, string) error { return nil }

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) ObserveAuth(event string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "err"
	}
	o.events = append(o.events, event+":"+outcome)
}
