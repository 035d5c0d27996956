package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/textbooktown/backend/internal/config"
	"github.com/textbooktown/backend/internal/middleware"
	"github.com/textbooktown/backend/internal/model"
	"github.com/textbooktown/backend/internal/repository"
	"github.com/textbooktown/backend/internal/utils"
)

// UserStore is the persistence surface the auth endpoints need.
type UserStore interface {
	Create(ctx context.Context, username, password, contact string, cost int) (uint64, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// AuthHandler bundles dependencies for registration and login.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	PasswordCheck string `json:"passwordCheck"`
	ContactLink   string `json:"contactLink"`
}

type tokenCheckReq struct {
	Token string `json:"token"`
}

// statusResp is the common success/failure envelope. Validation
// failures travel as 200 responses with a machine-readable message
// code; HTTP error codes are reserved for auth (401) and missing
// resources (400).
type statusResp struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func failure(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, statusResp{Status: "failure", Message: message})
}

const (
	usernameMinLen = 4
	usernameMaxLen = 32
	passwordMinLen = 6
)

// Register creates a new user account. The username is lowercased so
// uniqueness is case-insensitive. Each validation failure maps to a
// distinct message code the frontend switches on.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return failure(c, "missing_arguments")
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if username == "" || req.Password == "" || req.PasswordCheck == "" || req.ContactLink == "" {
		return failure(c, "missing_arguments")
	}
	if len(username) > usernameMaxLen {
		return failure(c, "username_too_long")
	}
	if len(username) < usernameMinLen {
		return failure(c, "username_too_short")
	}
	if req.Password != req.PasswordCheck {
		return failure(c, "passwords_not_matching")
	}
	if len(req.Password) < passwordMinLen {
		return failure(c, "password_too_short")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, username, req.Password, req.ContactLink, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return failure(c, "username_taken")
		}
		utils.Error("create user failed", map[string]any{"error": err.Error()})
		return c.JSON(http.StatusInternalServerError, statusResp{Status: "failure"})
	}
	return c.JSON(http.StatusOK, statusResp{Status: "success"})
}

// Login issues a time-limited auth token for the authenticated user.
// The route sits behind CredentialAuth, so the Basic credentials may
// be username+password or an existing token with a blank password.
func (h *AuthHandler) Login(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}
	token, err := utils.NewAuthToken(h.Cfg.TokenSecret, u.ID, h.Cfg.TokenTTLSecs)
	if err != nil {
		utils.Error("issue token failed", map[string]any{"error": err.Error()})
		return c.JSON(http.StatusInternalServerError, statusResp{Status: "failure"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "success",
		"token":    token,
		"duration": h.Cfg.TokenTTLSecs,
	})
}

// CheckToken lets the frontend test whether a stored token is still
// valid: success when it verifies and resolves to a user, failure
// otherwise. Expired and malformed tokens are indistinguishable here.
func (h *AuthHandler) CheckToken(c echo.Context) error {
	var req tokenCheckReq
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusOK, statusResp{Status: "failure"})
	}
	uid, outcome := utils.VerifyAuthToken(h.Cfg.TokenSecret, req.Token)
	if outcome != utils.TokenOK {
		return c.JSON(http.StatusOK, statusResp{Status: "failure"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Users.GetByID(ctx, uid); err != nil {
		return c.JSON(http.StatusOK, statusResp{Status: "failure"})
	}
	return c.JSON(http.StatusOK, statusResp{Status: "success"})
}

// GetUser returns the username for an id. Missing users get a bare
// 400, which is what this API uses for not-found lookups.
func (h *AuthHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.NoContent(http.StatusBadRequest)
		}
		utils.Error("load user failed", map[string]any{"error": err.Error()})
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, echo.Map{"username": u.Username})
}
