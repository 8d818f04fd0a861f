package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres/repository"
)

type fakeUserRepo struct {
	byEmail map[string]*entities.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*entities.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return repository.ErrEmailTaken
	}
	r.nextID++
	user.ID = r.nextID
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entities.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func newAuthService(repo UserRepository) *AuthService {
	return NewAuthService(repo, "test-secret", time.Hour)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	user, token, err := svc.Register(ctx, "  Ada@Example.COM ", "hunter22", "Ada Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "hunter22", user.HashedPassword)

	userID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "ada@example.com", "other", "Other")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login returns a verifiable token", func(t *testing.T) {
		logged, token, err := svc.Login(ctx, "ada@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, user.ID, logged.ID)

		id, err := svc.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ada@example.com", "not-the-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "hunter22")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		user.IsActive = false
		defer func() { user.IsActive = true }()

		_, _, err := svc.Login(ctx, "ada@example.com", "hunter22")
		assert.ErrorIs(t, err, ErrInactiveAccount)
	})
}

func TestAuthVerifyToken(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newFakeUserRepo())

	_, token, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(newFakeUserRepo(), "different-secret", time.Hour)
		_, err := other.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived := newFakeUserRepo()
		expiring := NewAuthService(shortLived, "test-secret", -time.Minute)
		_, expired, err := expiring.Register(ctx, "eve@example.com", "pw123456", "Eve")
		require.NoError(t, err)

		_, err = expiring.VerifyToken(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
