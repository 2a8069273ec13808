package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	authMiddleware "github.com/signalpanel/auth-service/internal/auth/middleware"
	"github.com/signalpanel/auth-service/internal/auth/service"
	"github.com/signalpanel/auth-service/internal/models"
)

// mockUserService is a mock implementation of UserService
type mockUserService struct {
	loginToken    string
	loginErr      error
	info          *models.UserInfo
	infoErr       error
	created       *models.UserInfo
	createErr     error
	createReqRole models.Role
	createCalls   int
}

func (m *mockUserService) Login(ctx context.Context, account, password string) (string, error) {
	if m.loginErr != nil {
		return "", m.loginErr
	}
	return m.loginToken, nil
}

func (m *mockUserService) GetInfo(ctx context.Context, account string) (*models.UserInfo, error) {
	if m.infoErr != nil {
		return nil, m.infoErr
	}
	return m.info, nil
}

func (m *mockUserService) CreateUser(ctx context.Context, requesterRole models.Role, req *models.CreateUserRequest) (*models.UserInfo, error) {
	m.createCalls++
	m.createReqRole = requesterRole
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.created, nil
}

// setupUserTestRouter mounts the handler with the real auth middleware so
// tests exercise the full request path.
func setupUserTestRouter(t *testing.T, svc *mockUserService) (*chi.Mux, *service.TokenGenerator) {
	t.Helper()

	tokenGenerator := service.NewTokenGenerator("test-secret", 1*time.Hour)
	handler := NewUserHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r, authMiddleware.AuthMiddleware(tokenGenerator))

	return r, tokenGenerator
}

func doRequest(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUserHandler_Login(t *testing.T) {
	t.Run("success returns a bearer token body", func(t *testing.T) {
		svc := &mockUserService{loginToken: "signed-token"}
		r, _ := setupUserTestRouter(t, svc)

		rec := doRequest(t, r, http.MethodPost, "/login", "", models.AuthPayload{
			Account:  "alice",
			Password: "Password123!",
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		var body models.AuthBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "signed-token", body.AccessToken)
		assert.Equal(t, "Bearer", body.TokenType)
	})

	t.Run("wrong credentials is a client error", func(t *testing.T) {
		svc := &mockUserService{loginErr: models.ErrWrongCredentials}
		r, _ := setupUserTestRouter(t, svc)

		rec := doRequest(t, r, http.MethodPost, "/login", "", models.AuthPayload{
			Account:  "alice",
			Password: "wrongpass",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), models.ErrWrongCredentials.Error())
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		svc := &mockUserService{}
		r, _ := setupUserTestRouter(t, svc)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid request body")
	})

	t.Run("too short account fails validation", func(t *testing.T) {
		svc := &mockUserService{loginToken: "should-not-be-issued"}
		r, _ := setupUserTestRouter(t, svc)

		rec := doRequest(t, r, http.MethodPost, "/login", "", models.AuthPayload{
			Account:  "ab",
			Password: "Password123!",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation error")
	})

	t.Run("storage failure is a server error", func(t *testing.T) {
		svc := &mockUserService{loginErr: models.ErrPersistence}
		r, _ := setupUserTestRouter(t, svc)

		rec := doRequest(t, r, http.MethodPost, "/login", "", models.AuthPayload{
			Account:  "alice",
			Password: "Password123!",
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestUserHandler_GetInfo(t *testing.T) {
	t.Run("success returns the authenticated user's profile", func(t *testing.T) {
		created := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
		svc := &mockUserService{
			info: &models.UserInfo{
				Account:   "alice",
				Name:      "Alice",
				Role:      models.RoleUser,
				State:     models.StateEnabled,
				CreatedAt: created,
			},
		}
		r, tokenGenerator := setupUserTestRouter(t, svc)

		token, err := tokenGenerator.GenerateToken("alice", models.RoleUser)
		require.NoError(t, err)

		rec := doRequest(t, r, http.MethodGet, "/user", token, nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var info models.UserInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.Equal(t, "alice", info.Account)
		assert.Equal(t, models.RoleUser, info.Role)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		svc := &mockUserService{}
		r, _ := setupUserTestRouter(t, svc)

		rec := doRequest(t, r, http.MethodGet, "/user", "", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), models.ErrMissingCredentials.Error())
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		svc := &mockUserService{}
		r, _ := setupUserTestRouter(t, svc)

		rec := doRequest(t, r, http.MethodGet, "/user", "not-a-jwt", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), models.ErrInvalidToken.Error())
	})

	t.Run("deleted user is not found", func(t *testing.T) {
		svc := &mockUserService{infoErr: models.ErrUserNotFound}
		r, tokenGenerator := setupUserTestRouter(t, svc)

		token, err := tokenGenerator.GenerateToken("ghost", models.RoleUser)
		require.NoError(t, err)

		rec := doRequest(t, r, http.MethodGet, "/user", token, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUserHandler_CreateUser(t *testing.T) {
	validRequest := func() models.CreateUserRequest {
		return models.CreateUserRequest{
			Account:  "newuser",
			Password: "Password123!",
			Name:     "New User",
			Role:     models.RoleUser,
		}
	}

	t.Run("admin token creates a user", func(t *testing.T) {
		svc := &mockUserService{
			created: &models.UserInfo{
				Account: "newuser",
				Name:    "New User",
				Role:    models.RoleUser,
				State:   models.StateEnabled,
			},
		}
		r, tokenGenerator := setupUserTestRouter(t, svc)

		token, err := tokenGenerator.GenerateToken("admin", models.RoleAdmin)
		require.NoError(t, err)

		rec := doRequest(t, r, http.MethodPost, "/user", token, validRequest())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.RoleAdmin, svc.createReqRole)

		var info models.UserInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.Equal(t, "newuser", info.Account)
	})

	t.Run("non-admin token is denied", func(t *testing.T) {
		svc := &mockUserService{createErr: models.ErrPermissionDenied}
		r, tokenGenerator := setupUserTestRouter(t, svc)

		token, err := tokenGenerator.GenerateToken("alice", models.RoleUser)
		require.NoError(t, err)

		rec := doRequest(t, r, http.MethodPost, "/user", token, validRequest())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), models.ErrPermissionDenied.Error())
		assert.Equal(t, models.RoleUser, svc.createReqRole)
	})

	t.Run("missing token is unauthorized without touching the service", func(t *testing.T) {
		svc := &mockUserService{}
		r, _ := setupUserTestRouter(t, svc)

		rec := doRequest(t, r, http.MethodPost, "/user", "", validRequest())

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, svc.createCalls)
	})

	t.Run("duplicate account is a client error", func(t *testing.T) {
		svc := &mockUserService{createErr: models.ErrDuplicateAccount}
		r, tokenGenerator := setupUserTestRouter(t, svc)

		token, err := tokenGenerator.GenerateToken("admin", models.RoleAdmin)
		require.NoError(t, err)

		rec := doRequest(t, r, http.MethodPost, "/user", token, validRequest())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), models.ErrDuplicateAccount.Error())
	})

	t.Run("out of range role fails validation", func(t *testing.T) {
		svc := &mockUserService{}
		r, tokenGenerator := setupUserTestRouter(t, svc)

		token, err := tokenGenerator.GenerateToken("admin", models.RoleAdmin)
		require.NoError(t, err)

		req := validRequest()
		req.Role = 100
		rec := doRequest(t, r, http.MethodPost, "/user", token, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation error")
		assert.Zero(t, svc.createCalls)
	})

	t.Run("storage failure is a server error", func(t *testing.T) {
		svc := &mockUserService{createErr: models.ErrPersistence}
		r, tokenGenerator := setupUserTestRouter(t, svc)

		token, err := tokenGenerator.GenerateToken("admin", models.RoleAdmin)
		require.NoError(t, err)

		rec := doRequest(t, r, http.MethodPost, "/user", token, validRequest())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
