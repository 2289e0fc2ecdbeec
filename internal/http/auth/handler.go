package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/juscash/djetracker/internal/auth"
	"github.com/juscash/djetracker/internal/http/api"
	"github.com/juscash/djetracker/internal/user"
)

var validate = validator.New()

type Handler struct {
	users  *user.Service
	tokens *auth.Tokens
}

func NewHandler(users *user.Service, tokens *auth.Tokens) *Handler {
	return &Handler{users: users, tokens: tokens}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

var (
	nameLetters = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s]+$`)

	passwordLower  = regexp.MustCompile(`[a-z]`)
	passwordUpper  = regexp.MustCompile(`[A-Z]`)
	passwordDigit  = regexp.MustCompile(`\d`)
	passwordSymbol = regexp.MustCompile(`[@$!%*?&]`)
)

// validateName enforces the rules beyond length: letters only and a full
// name (first plus last).
func validateName(name string) string {
	if !nameLetters.MatchString(name) {
		return "Nome deve conter apenas letras e espaços"
	}

	if !strings.Contains(strings.TrimSpace(name), " ") {
		return "Digite seu nome completo (nome e sobrenome)"
	}

	return ""
}

func validatePassword(password string) string {
	for _, re := range []*regexp.Regexp{passwordLower, passwordUpper, passwordDigit, passwordSymbol} {
		if !re.MatchString(password) {
			return "Senha deve conter pelo menos: 1 letra minúscula, 1 maiúscula, 1 número e 1 símbolo"
		}
	}

	return ""
}

// validationMessage maps the first failing rule to its user-facing message,
// mirroring how the API has always reported only one error at a time.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Dados inválidos"
	}

	fe := verrs[0]

	switch fe.Field() {
	case "Name":
		switch fe.Tag() {
		case "max":
			return "Nome deve ter no máximo 100 caracteres"
		default:
			return "Nome deve ter pelo menos 2 caracteres"
		}
	case "Email":
		if fe.Tag() == "max" {
			return "Email deve ter no máximo 100 caracteres"
		}

		return "Email inválido"
	case "Password":
		switch fe.Tag() {
		case "max":
			return "Senha deve ter no máximo 128 caracteres"
		case "min":
			return "Senha deve ter pelo menos 8 caracteres"
		default:
			return "Senha é obrigatória"
		}
	}

	return "Dados inválidos"
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	if err := validate.Struct(req); err != nil {
		api.Fail(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if msg := validateName(req.Name); msg != "" {
		api.Fail(w, http.StatusBadRequest, msg)
		return
	}

	if msg := validatePassword(req.Password); msg != "" {
		api.Fail(w, http.StatusBadRequest, msg)
		return
	}

	u, err := h.users.Register(r.Context(), user.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			api.Fail(w, http.StatusConflict, "Email já cadastrado")
			return
		}

		api.Internal(w, err)

		return
	}

	token, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		api.Internal(w, err)
		return
	}

	api.Created(w, authResponse{Token: token, User: toUserResponse(u)})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	if err := validate.Struct(req); err != nil {
		api.Fail(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}

		api.Internal(w, err)

		return
	}

	token, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		api.Internal(w, err)
		return
	}

	api.OK(w, authResponse{Token: token, User: toUserResponse(u)})
}
