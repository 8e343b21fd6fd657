package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vaughan-dsouza/authapi/internal/common"
	"github.com/vaughan-dsouza/authapi/internal/logging"
	"github.com/vaughan-dsouza/authapi/internal/middleware"
	"github.com/vaughan-dsouza/authapi/internal/utils"
)

type UserHandler struct {
	accounts Accounts
	logger   logging.Logger
}

func NewUserHandler(accounts Accounts, logger logging.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: logger}
}

// ListUsers handles GET /api/users. Any valid token sees every user.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		writeError(r.Context(), h.logger, w, "list users", err)
		return
	}

	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		h.logger.Debug(r.Context(), "users listed", "user_id", claims.SubjectInt(), "count", len(users))
	}

	utils.JSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(r.Context(), h.logger, w, "get user", common.NewValidationError("invalid user id"))
		return
	}

	u, err := h.accounts.GetUser(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, "get user", err)
		return
	}

	utils.JSON(w, http.StatusOK, u)
}
