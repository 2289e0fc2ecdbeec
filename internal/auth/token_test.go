package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juscash/djetracker/internal/auth"
)

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)

	id := uuid.New()
	signed, err := tokens.Issue(id, "joao@exemplo.com")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, "joao@exemplo.com", claims.Email)
}

func TestTokens_Expired(t *testing.T) {
	tokens := auth.NewTokens("test-secret", -time.Minute)

	signed, err := tokens.Issue(uuid.New(), "joao@exemplo.com")
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokens_WrongSecret(t *testing.T) {
	signed, err := auth.NewTokens("secret-a", time.Hour).Issue(uuid.New(), "joao@exemplo.com")
	require.NoError(t, err)

	_, err = auth.NewTokens("secret-b", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokens_Garbage(t *testing.T) {
	_, err := auth.NewTokens("test-secret", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
