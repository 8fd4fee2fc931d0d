package auth_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/alanyang/mission-control/internal/domain/apperr"
	domainuser "github.com/alanyang/mission-control/internal/domain/user"
	"github.com/alanyang/mission-control/internal/mocks"
	authsvc "github.com/alanyang/mission-control/internal/service/auth"
	transportauth "github.com/alanyang/mission-control/internal/transport/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(t *testing.T) (*gin.Engine, *mocks.MockUserRepository) {
	t.Helper()
	repo := mocks.NewMockUserRepository(gomock.NewController(t))
	r := gin.New()
	transportauth.Register(r.Group("/auth"), authsvc.NewService(repo, bcrypt.MinCost))
	return r, repo
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(m *mocks.MockUserRepository)
		wantCode int
		wantBody string
	}{
		{
			name: "created with default name",
			body: `{"email":"pepper@stark.io","password":"hunter2"}`,
			setup: func(m *mocks.MockUserRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u domainuser.User) (domainuser.User, error) {
						u.ID = "u1"
						return u, nil
					})
			},
			wantCode: http.StatusCreated,
			wantBody: `{"id":"u1","email":"pepper@stark.io","name":"pepper"}`,
		},
		{
			name:     "missing password",
			body:     `{"email":"pepper@stark.io"}`,
			setup:    func(m *mocks.MockUserRepository) {},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Email and password required"}`,
		},
		{
			name: "duplicate email",
			body: `{"email":"pepper@stark.io","password":"hunter2"}`,
			setup: func(m *mocks.MockUserRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(domainuser.User{}, fmt.Errorf("inserting user: %w", apperr.ErrConflict))
			},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Email already exists"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, repo := newRouter(t)
			tt.setup(repo)

			w := post(r, "/auth/register", tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := domainuser.User{ID: "u1", Email: "pepper@stark.io", PasswordHash: string(hash), Name: "Pepper"}

	tests := []struct {
		name     string
		body     string
		setup    func(m *mocks.MockUserRepository)
		wantCode int
		wantBody string
	}{
		{
			name: "ok",
			body: `{"email":"pepper@stark.io","password":"hunter2"}`,
			setup: func(m *mocks.MockUserRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "pepper@stark.io").Return(stored, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"id":"u1","email":"pepper@stark.io","name":"Pepper"}`,
		},
		{
			name: "wrong password",
			body: `{"email":"pepper@stark.io","password":"nope"}`,
			setup: func(m *mocks.MockUserRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "pepper@stark.io").Return(stored, nil)
			},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Invalid credentials"}`,
		},
		{
			name: "unknown email",
			body: `{"email":"tony@stark.io","password":"hunter2"}`,
			setup: func(m *mocks.MockUserRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "tony@stark.io").
					Return(domainuser.User{}, fmt.Errorf("user: %w", apperr.ErrNotFound))
			},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Invalid credentials"}`,
		},
		{
			name:     "missing email",
			body:     `{"password":"hunter2"}`,
			setup:    func(m *mocks.MockUserRepository) {},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Email and password required"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, repo := newRouter(t)
			tt.setup(repo)

			w := post(r, "/auth/login", tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
