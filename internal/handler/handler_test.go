package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"user_service/internal/common"
	"user_service/internal/logging"
	"user_service/internal/middleware"
	"user_service/internal/model"
	"user_service/internal/repository"
	"user_service/internal/service"
	"user_service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// memoryUserRepo is an in-memory repository backing the handler tests, so
// they exercise the full handler -> service -> envelope path.
type memoryUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[int64]*model.User{}, nextID: 1}
}

func (m *memoryUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = m.nextID
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memoryUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memoryUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memoryUserRepo) FindByCondition(ctx context.Context, q model.UserQuery) ([]model.User, error) {
	out := []model.User{}
	for _, u := range m.users {
		if q.Status != nil && u.Status != *q.Status {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (m *memoryUserRepo) FindPage(ctx context.Context, pageNum, pageSize int) (*model.Page[model.User], error) {
	all, _ := m.FindAll(ctx)
	page := model.NewPage(all, int64(len(all)), pageNum, pageSize)
	return &page, nil
}

func (m *memoryUserRepo) Update(ctx context.Context, user *model.User) (int64, error) {
	if _, ok := m.users[user.ID]; !ok {
		return 0, nil
	}
	cp := *user
	m.users[user.ID] = &cp
	return 1, nil
}

func (m *memoryUserRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

func (m *memoryUserRepo) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	var n int64
	for id, u := range m.users {
		if u.Username == username {
			delete(m.users, id)
			n++
		}
	}
	return n, nil
}

var _ repository.UserRepository = (*memoryUserRepo)(nil)

type fixture struct {
	router *gin.Engine
	repo   *memoryUserRepo
	jwt    *utils.JWTUtil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	repo := newMemoryUserRepo()
	jwtUtil := utils.NewJWTUtil("secret", 3600)
	userSvc := service.NewUserService(repo, log)
	authSvc := service.NewAuthService(userSvc, jwtUtil, log)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.Recovery(log))
	router.Use(middleware.TraceID())
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.AuthMiddleware(jwtUtil))
	router.NoRoute(middleware.NotFoundHandler())
	router.NoMethod(middleware.MethodNotAllowedHandler())

	NewAuthHandler(authSvc).RegisterAuthRoutes(router)
	NewUserHandler(userSvc).RegisterUserRoutes(router)

	return &fixture{router: router, repo: repo, jwt: jwtUtil}
}

func (f *fixture) seedUser(t *testing.T, username, email string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email, Status: model.StatusActive}
	require.NoError(t, f.repo.Create(context.Background(), user))
	return user
}

func (f *fixture) do(t *testing.T, method, path string, body any, authed bool) (*httptest.ResponseRecorder, common.Result) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, err := f.jwt.GenerateToken("tester")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var res common.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), "body: %s", w.Body.String())
	return w, res
}
