package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-evently-api/internal/types"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req types.RegisterRequest) (*types.RegisterResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RegisterResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req types.LoginRequest) (*types.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.LoginResponse), args.Error(1)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.RegisterResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RegisterResponse), args.Error(1)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	msg, _ := body["error"].(string)
	return msg
}

func TestRegisterHandler(t *testing.T) {
	post := func(h *AuthHandlerImpl, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.Register(rr, req)
		return rr
	}

	t.Run("Created", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandlerImpl(svc, discardLogger())
		id := uuid.New()
		svc.On("Register", mock.Anything, types.RegisterRequest{Email: "a@b.com", Password: "pw"}).
			Return(&types.RegisterResponse{ID: id, Email: "a@b.com"}, nil).Once()

		rr := post(h, `{"email":"a@b.com","password":"pw"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"id":"`+id.String()+`","email":"a@b.com"}`, rr.Body.String())
		assert.NotContains(t, rr.Body.String(), "password")
		svc.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandlerImpl(svc, discardLogger())
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, types.ErrConflict).Once()

		rr := post(h, `{"email":"a@b.com","password":"pw"}`)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "email already in use", decodeError(t, rr))
	})

	t.Run("Validation", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandlerImpl(svc, discardLogger())
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, types.ErrValidation).Once()

		rr := post(h, `{"email":"","password":""}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandlerImpl(svc, discardLogger())

		rr := post(h, `{"email": "a@b.com", "password":}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("StoreFailureHidesDetails", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandlerImpl(svc, discardLogger())
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, errors.New("pq: connection refused")).Once()

		rr := post(h, `{"email":"a@b.com","password":"pw"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to register user", decodeError(t, rr))
	})
}

func TestLoginHandler(t *testing.T) {
	post := func(h *AuthHandlerImpl, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.Login(rr, req)
		return rr
	}

	t.Run("Success", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandlerImpl(svc, discardLogger())
		exp := time.Date(2024, 12, 23, 10, 0, 0, 0, time.UTC)
		svc.On("Login", mock.Anything, types.LoginRequest{Email: "a@b.com", Password: "pw"}).
			Return(&types.LoginResponse{Token: "signed.jwt.token", ExpiresAt: exp}, nil).Once()

		rr := post(h, `{"email":"a@b.com","password":"pw"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "signed.jwt.token", body["token"])
		assert.Equal(t, "2024-12-23T10:00:00Z", body["expires_at"])
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandlerImpl(svc, discardLogger())
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, types.ErrUnauthenticated).Once()

		rr := post(h, `{"email":"a@b.com","password":"bad"}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "invalid email or password", decodeError(t, rr))
	})

	t.Run("UnknownKey", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandlerImpl(svc, discardLogger())

		rr := post(h, `{"email":"a@b.com","password":"pw","admin":true}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMeHandler(t *testing.T) {
	id := uuid.New()

	t.Run("Found", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandlerImpl(svc, discardLogger())
		svc.On("GetUserByID", mock.Anything, id).Return(&types.RegisterResponse{ID: id, Email: "me@x.io"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(WithIdentity(req.Context(), types.Identity{UserID: id, Email: "me@x.io"}))
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), id.String())
	})

	t.Run("Deleted", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandlerImpl(svc, discardLogger())
		svc.On("GetUserByID", mock.Anything, id).Return(nil, types.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(WithIdentity(req.Context(), types.Identity{UserID: id}))
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("NoIdentity", func(t *testing.T) {
		h := NewAuthHandlerImpl(new(MockAuthService), discardLogger())
		rr := httptest.NewRecorder()
		h.Me(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
