package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/service"
	"github.com/mattdotroberts/on-this-day/internal/service/auth"
	"github.com/mattdotroberts/on-this-day/internal/store"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func newAuthHandler(users *MockUserService, jwt *MockJWTService) *AuthHandler {
	return NewAuthHandler(users, jwt, slog.Default())
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	user := &domain.User{ID: userID, Email: "reader@example.com"}

	users := new(MockUserService)
	users.On("Register", mock.Anything, "reader@example.com", "longenough").Return(user, nil)

	jwt := new(MockJWTService)
	jwt.On("GenerateToken", mock.Anything, userID).Return("access-token", nil)
	jwt.On("GenerateRefreshToken", mock.Anything, userID).Return("refresh-token", nil)

	rr := postJSON(t, newAuthHandler(users, jwt).Register, "/api/auth/register", RegisterRequest{
		Email:    "reader@example.com",
		Password: "longenough",
	})

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.UserID)
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
	users.AssertExpectations(t)
	jwt.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	users := new(MockUserService)
	users.On("Register", mock.Anything, "reader@example.com", "longenough").
		Return(nil, store.ErrEmailExists)

	rr := postJSON(t, newAuthHandler(users, new(MockJWTService)).Register, "/api/auth/register",
		RegisterRequest{Email: "reader@example.com", Password: "longenough"})

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Email already exists")
}

func TestRegister_ShortPasswordRejectedBeforeService(t *testing.T) {
	t.Parallel()

	users := new(MockUserService)

	rr := postJSON(t, newAuthHandler(users, new(MockJWTService)).Register, "/api/auth/register",
		RegisterRequest{Email: "reader@example.com", Password: "short"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	users.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(new(MockUserService), new(MockJWTService))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	user := &domain.User{ID: userID, Email: "reader@example.com"}

	users := new(MockUserService)
	users.On("Authenticate", mock.Anything, "reader@example.com", "secret-password").Return(user, nil)

	jwt := new(MockJWTService)
	jwt.On("GenerateToken", mock.Anything, userID).Return("access-token", nil)
	jwt.On("GenerateRefreshToken", mock.Anything, userID).Return("refresh-token", nil)

	rr := postJSON(t, newAuthHandler(users, jwt).Login, "/api/auth/login", LoginRequest{
		Email:    "reader@example.com",
		Password: "secret-password",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "access-token", resp.AccessToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	users := new(MockUserService)
	users.On("Authenticate", mock.Anything, "reader@example.com", "wrong").
		Return(nil, service.ErrInvalidCredentials)

	rr := postJSON(t, newAuthHandler(users, new(MockJWTService)).Login, "/api/auth/login",
		LoginRequest{Email: "reader@example.com", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid credentials")
}

func TestRefreshToken_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	jwt := new(MockJWTService)
	jwt.On("ValidateRefreshToken", mock.Anything, "old-refresh").
		Return(&auth.Claims{UserID: userID}, nil)
	jwt.On("GenerateToken", mock.Anything, userID).Return("new-access", nil)
	jwt.On("GenerateRefreshToken", mock.Anything, userID).Return("new-refresh", nil)

	rr := postJSON(t, newAuthHandler(new(MockUserService), jwt).RefreshToken, "/api/auth/refresh",
		RefreshTokenRequest{RefreshToken: "old-refresh"})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "new-access", resp.AccessToken)
	assert.Equal(t, "new-refresh", resp.RefreshToken)
}

func TestRefreshToken_WrongTokenType(t *testing.T) {
	t.Parallel()

	jwt := new(MockJWTService)
	jwt.On("ValidateRefreshToken", mock.Anything, "an-access-token").
		Return(nil, auth.ErrWrongTokenType)

	rr := postJSON(t, newAuthHandler(new(MockUserService), jwt).RefreshToken, "/api/auth/refresh",
		RefreshTokenRequest{RefreshToken: "an-access-token"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
