package handlers

import (
	"net/http"

	"github.com/vaughan-dsouza/authapi/internal/logging"
	"github.com/vaughan-dsouza/authapi/internal/models"
	"github.com/vaughan-dsouza/authapi/internal/services"
	"github.com/vaughan-dsouza/authapi/internal/utils"
)

type AuthHandler struct {
	accounts Accounts
	logger   logging.Logger
}

func NewAuthHandler(accounts Accounts, logger logging.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerResp struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Message  string      `json:"message"`
	Token    string      `json:"token"`
	UserRole models.Role `json:"user_role"`
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		writeError(r.Context(), h.logger, w, "register", err)
		return
	}

	u, err := h.accounts.Register(r.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(r.Context(), h.logger, w, "register", err)
		return
	}

	utils.JSON(w, http.StatusCreated, registerResp{
		Message: "User registered successfully",
		User:    u,
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		writeError(r.Context(), h.logger, w, "login", err)
		return
	}

	res, err := h.accounts.Login(r.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(r.Context(), h.logger, w, "login", err)
		return
	}

	h.logger.Debug(r.Context(), "token issued", "role", res.Role, "expires_at", res.ExpiresAt)
	utils.JSON(w, http.StatusOK, loginResp{
		Message:  "Login successful",
		Token:    res.Token,
		UserRole: res.Role,
	})
}
