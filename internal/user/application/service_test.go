package application

import (
	"context"
	"testing"
	"time"

	"github.com/floresya/floresya/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockUserRepository keeps users in memory, keyed by email.
type MockUserRepository struct {
	byEmail map[string]*domain.User
	byID    map[uint]*domain.User
	nextID  uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[uint]*domain.User),
	}
}

func (m *MockUserRepository) GetByID(_ context.Context, id uint) (*domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *MockUserRepository) Save(_ context.Context, user *domain.User) error {
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	}
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *MockUserRepository) List(_ context.Context, _, _ int) ([]*domain.User, int64, error) {
	var list []*domain.User
	for _, u := range m.byID {
		list = append(list, u)
	}
	return list, int64(len(list)), nil
}

func newTestService() (*UserService, *MockUserRepository) {
	repo := NewMockUserRepository()
	return NewUserService(repo, "test-secret", time.Hour), repo
}

func register(t *testing.T, svc *UserService) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterCommand{
		Email:    "maria@example.com",
		Password: "secret-password",
		FullName: "Maria Perez",
		Phone:    "0414-1234567",
	})
	require.NoError(t, err)
	return user
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, _ := newTestService()

	user := register(t, svc)

	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.Active)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret-password", user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterCommand{
		Email:    "maria@example.com",
		Password: "another-password",
		FullName: "Otra Maria",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _ := newTestService()
	registered := register(t, svc)

	token, user, err := svc.Login(context.Background(), "maria@example.com", "secret-password")

	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, token)

	id, role, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, id)
	assert.Equal(t, domain.RoleUser, role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)

	_, _, err := svc.Login(context.Background(), "maria@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, repo := newTestService()
	user := register(t, svc)

	user.Active = false
	require.NoError(t, repo.Save(context.Background(), user))

	_, _, err := svc.Login(context.Background(), "maria@example.com", "secret-password")
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestVerify_RejectsGarbageToken(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerify_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)
	token, _, err := svc.Login(context.Background(), "maria@example.com", "secret-password")
	require.NoError(t, err)

	other := NewUserService(NewMockUserRepository(), "different-secret", time.Hour)
	_, _, err = other.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSetActive_Deactivates(t *testing.T) {
	svc, _ := newTestService()
	user := register(t, svc)

	updated, err := svc.SetActive(context.Background(), user.ID, false)

	require.NoError(t, err)
	assert.False(t, updated.Active)
}
