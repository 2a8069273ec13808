package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	authMiddleware "github.com/signalpanel/auth-service/internal/auth/middleware"
	"github.com/signalpanel/auth-service/internal/models"
)

// UserService is the interface that wraps methods for user business logic.
type UserService interface {
	// Method Login performs a user credentials validation and returns a signed access token.
	//
	// "account" and "password" parameters identify the user.
	//
	// If the account does not exist or the password does not match, models.ErrWrongCredentials
	// will be returned together with an empty token.
	Login(ctx context.Context, account, password string) (string, error)
	// Method GetInfo retrieves the public projection of a user.
	//
	// "account" parameter is used to identify the user.
	//
	// If user with such account does not exist, models.ErrUserNotFound will be returned together with "nil" value.
	GetInfo(ctx context.Context, account string) (*models.UserInfo, error)
	// Method CreateUser creates a new user on behalf of an administrator.
	//
	// "requesterRole" parameter is the verified role of the caller.
	// "req" parameter contains account, password, name and role of the new user.
	//
	// If the requester is not an administrator, models.ErrPermissionDenied will be returned.
	// If the account is already registered, models.ErrDuplicateAccount will be returned.
	CreateUser(ctx context.Context, requesterRole models.Role, req *models.CreateUserRequest) (*models.UserInfo, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	BaseHandler
	userService UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{Logger: logger},
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers all user handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *UserHandler) RegisterRoutes(r chi.Router, authMw func(http.Handler) http.Handler) {
	r.Post("/login", h.Login)
	r.Route("/user", func(r chi.Router) {
		r.Use(authMw)
		r.Get("/", h.GetInfo)
		r.Post("/", h.CreateUser)
	})
}

// Login handles POST /login
// @Summary Login user
// @Description Authenticate user with account and password. Returns a bearer access token.
// @Tags user
// @Accept json
// @Produce json
// @Param request body models.AuthPayload true "Login request"
// @Success 200 {object} models.AuthBody "Login successful"
// @Failure 400 {object} map[string]string "Invalid request body or wrong credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload models.AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&payload); err != nil {
		h.RespondError(w, http.StatusBadRequest, "validation error")
		return
	}

	token, err := h.userService.Login(r.Context(), payload.Account, payload.Password)
	if err != nil {
		if errors.Is(err, models.ErrWrongCredentials) {
			h.RespondError(w, http.StatusBadRequest, models.ErrWrongCredentials.Error())
			return
		}
		h.Logger.Error("failed to login user", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.NewAuthBody(token))
}

// GetInfo handles GET /user
// @Summary Get current user info
// @Description Return the profile of the authenticated user.
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.UserInfo "User info"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 404 {object} map[string]string "User not found"
// @Router /user [get]
func (h *UserHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	account, ok := authMiddleware.GetAccount(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, models.ErrMissingCredentials.Error())
		return
	}

	info, err := h.userService.GetInfo(r.Context(), account)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			h.RespondError(w, http.StatusNotFound, models.ErrUserNotFound.Error())
			return
		}
		h.Logger.Error("failed to get user info", zap.Error(err), zap.String("account", account))
		h.RespondError(w, http.StatusInternalServerError, "failed to get user info")
		return
	}

	h.RespondJSON(w, http.StatusOK, info)
}

// CreateUser handles POST /user
// @Summary Create a new user
// @Description Create a new user. Requires an administrator bearer token.
// @Tags user
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateUserRequest true "Create user request"
// @Success 200 {object} models.UserInfo "Created user"
// @Failure 400 {object} map[string]string "Validation, permission or duplicate account failure"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /user [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	role, ok := authMiddleware.GetRole(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, models.ErrMissingCredentials.Error())
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "validation error")
		return
	}

	info, err := h.userService.CreateUser(r.Context(), role, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPermissionDenied):
			h.RespondError(w, http.StatusBadRequest, models.ErrPermissionDenied.Error())
		case errors.Is(err, models.ErrDuplicateAccount):
			h.RespondError(w, http.StatusBadRequest, models.ErrDuplicateAccount.Error())
		default:
			h.Logger.Error("failed to create user", zap.Error(err), zap.String("account", req.Account))
			h.RespondError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	h.RespondJSON(w, http.StatusOK, info)
}
