package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// UserService defines the user operations needed by the HTTP layer.
type UserService interface {
	Signup(ctx context.Context, input usecase.SignupInput) (*domain.User, *domain.Account, error)
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*domain.User, error)
	SearchUsers(ctx context.Context, filter, callerID string) ([]*domain.User, error)
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

// AuthObserver records sign-in outcomes.
type AuthObserver interface {
	AuthAttempted(result string)
}

// AuthHandler handles signup and signin.
type AuthHandler struct {
	users    UserService
	tokens   TokenIssuer
	observer AuthObserver
}

// NewAuthHandler creates a new auth handler. observer may be nil.
func NewAuthHandler(users UserService, tokens TokenIssuer, observer AuthObserver) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		observer: observer,
	}
}

// Signup creates a user with a funded account and returns a token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, account, err := h.users.Signup(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeServiceError(w, r, "failed to create user", err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		writeServiceError(w, r, "failed to generate token", err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("balance", account.Balance.StringFixed(2)).
		Msg("user signed up")

	writeJSON(w, http.StatusCreated, dto.TokenResponse{
		Message: "User created successfully",
		Token:   token,
	})
}

// Signin verifies credentials and returns a token.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), usecase.AuthenticateInput{
		Username:  req.Username,
		Password:  req.Password,
		ClientKey: middleware.ClientIP(r),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooManyAttempts):
			h.record("limited")
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.record("failure")
		default:
			h.record("error")
		}
		writeServiceError(w, r, "failed to sign in", err)
		return
	}
	h.record("success")

	token, err := h.tokens.Generate(user)
	if err != nil {
		writeServiceError(w, r, "failed to generate token", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) record(result string) {
	if h.observer != nil {
		h.observer.AuthAttempted(result)
	}
}
