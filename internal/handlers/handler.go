package handlers

import (
	"context"
	"net/http"

	"github.com/vaughan-dsouza/authapi/internal/logging"
	"github.com/vaughan-dsouza/authapi/internal/models"
	"github.com/vaughan-dsouza/authapi/internal/services"
	"github.com/vaughan-dsouza/authapi/internal/utils"
)

// Accounts is the part of services.UserService the handlers call.
type Accounts interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type Handler struct {
	Auth  *AuthHandler
	Users *UserHandler
}

func NewHandler(accounts Accounts, logger logging.Logger) *Handler {
	return &Handler{
		Auth:  NewAuthHandler(accounts, logger),
		Users: NewUserHandler(accounts, logger),
	}
}

func Health(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError sends the mapped response and logs anything that became a 5xx.
func writeError(ctx context.Context, logger logging.Logger, w http.ResponseWriter, op string, err error) {
	if status := utils.WriteError(w, err); status >= http.StatusInternalServerError {
		logger.Error(ctx, op+" failed", "error", err)
	}
}
