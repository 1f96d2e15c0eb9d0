package handler

import (
	"net/http"

	"github.com/iho/gowallet/internal/adapter/http/dto"
)

// UserHandler serves the caller's profile and the user directory.
type UserHandler struct {
	users UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the caller's profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), caller.ID)
	if err != nil {
		writeServiceError(w, r, "failed to get user", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Update changes the caller's names or password.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), req.ToUseCaseInput(caller.ID))
	if err != nil {
		writeServiceError(w, r, "failed to update user", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Search lists other users whose name contains the filter query parameter.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	users, err := h.users.SearchUsers(r.Context(), r.URL.Query().Get("filter"), caller.ID)
	if err != nil {
		writeServiceError(w, r, "failed to search users", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UsersFromDomain(users))
}
