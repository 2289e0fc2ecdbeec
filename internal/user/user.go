package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is an account that can sign in to the board.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrEmailTaken = errors.New("email já cadastrado")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("credenciais inválidas")

	ErrNotFound = errors.New("usuário não encontrado")
)
