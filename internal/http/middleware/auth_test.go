package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juscash/djetracker/internal/auth"
	"github.com/juscash/djetracker/internal/http/middleware"
)

func TestAuth(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	userID := uuid.New()

	valid, err := tokens.Issue(userID, "joao@exemplo.com")
	require.NoError(t, err)

	handler := middleware.Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(middleware.UserID(r.Context())))
	}))

	type testCase struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}

	tests := []testCase{
		{
			name:       "Valid",
			header:     "Bearer " + valid,
			wantStatus: http.StatusOK,
		},
		{
			name:       "Missing",
			header:     "",
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token de acesso requerido",
		},
		{
			name:       "WrongScheme",
			header:     "Basic abc123",
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token de acesso requerido",
		},
		{
			name:       "Garbage",
			header:     "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token inválido",
		},
		{
			name:       "WrongSecret",
			header:     "Bearer " + mustIssue(t, auth.NewTokens("other-secret", time.Hour), userID),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token inválido",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
				return
			}

			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func mustIssue(t *testing.T, tokens *auth.Tokens, id uuid.UUID) string {
	t.Helper()

	signed, err := tokens.Issue(id, "joao@exemplo.com")
	require.NoError(t, err)

	return signed
}
