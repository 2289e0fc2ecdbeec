package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockRepo struct {
	createFunc     func(ctx context.Context, u *User) error
	getByEmailFunc func(ctx context.Context, email string) (*User, error)
}

func (m *mockRepo) Create(ctx context.Context, u *User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}

	return nil
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}

	return nil, ErrNotFound
}

func TestRegister(t *testing.T) {
	t.Run("SanitizesAndHashes", func(t *testing.T) {
		var created *User

		svc := NewService(&mockRepo{
			createFunc: func(_ context.Context, u *User) error {
				created = u
				return nil
			},
		})

		u, err := svc.Register(context.Background(), RegisterParams{
			Name:     "  João   da  Silva ",
			Email:    " Joao@Example.COM ",
			Password: "Str0ng@Pass",
		})
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, "João da Silva", u.Name)
		assert.Equal(t, "joao@example.com", u.Email)

		assert.NotEqual(t, "Str0ng@Pass", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Str0ng@Pass")))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc := NewService(&mockRepo{
			createFunc: func(_ context.Context, _ *User) error {
				return ErrEmailTaken
			},
		})

		_, err := svc.Register(context.Background(), RegisterParams{
			Name:     "João da Silva",
			Email:    "joao@example.com",
			Password: "Str0ng@Pass",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng@Pass"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &User{Email: "joao@example.com", PasswordHash: string(hash)}

	repo := &mockRepo{
		getByEmailFunc: func(_ context.Context, email string) (*User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, ErrNotFound
		},
	}
	svc := NewService(repo)

	t.Run("Valid", func(t *testing.T) {
		u, err := svc.Authenticate(context.Background(), " JOAO@example.com ", "Str0ng@Pass")
		require.NoError(t, err)
		assert.Equal(t, stored.Email, u.Email)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "joao@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody@example.com", "Str0ng@Pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
