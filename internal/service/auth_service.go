package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"user_service/internal/common"
	"user_service/internal/logging"
	"user_service/internal/model"
	"user_service/internal/utils"
)

// RefreshSubjectSuffix marks refresh-token subjects. Refresh tokens reuse
// the access-token codec and secret.
const RefreshSubjectSuffix = "_refresh"

// AuthService provides login, registration and token refresh.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.LoginResponse, error)
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type authService struct {
	users   UserService
	jwtUtil *utils.JWTUtil
	log     logging.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserService, jwtUtil *utils.JWTUtil, log logging.Logger) AuthService {
	return &authService{users: users, jwtUtil: jwtUtil, log: log}
}

// Login authenticates a user and issues an access and a refresh token.
func (s *authService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}
	if user == nil {
		return nil, common.NewBusinessError("用户不存在")
	}

	if !s.checkPassword(user, password) {
		return nil, common.NewBusinessError("密码错误")
	}

	token, err := s.jwtUtil.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refreshToken, err := s.jwtUtil.GenerateToken(user.Username + RefreshSubjectSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.log.Info(ctx, "user logged in", "username", user.Username, "id", user.ID)

	return &model.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Username:     user.Username,
		ExpireTime:   time.Now().UnixMilli() + s.jwtUtil.ExpirationSeconds()*1000,
	}, nil
}

// checkPassword verifies the supplied password against the stored bcrypt
// hash. Accounts without a stored hash predate password storage and are
// accepted as-is.
func (s *authService) checkPassword(user *model.User, password string) bool {
	if user.PasswordHash == "" {
		return true
	}
	return utils.CheckPasswordHash(password, user.PasswordHash)
}

// Register creates a new user account.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	existing, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, common.NewBusinessError("用户名已存在")
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Age:      req.Age,
		Status:   model.StatusActive,
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if _, err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "username", user.Username, "id", user.ID)
	return user, nil
}

// Refresh validates a refresh token and issues a fresh access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	subject, err := s.jwtUtil.SubjectFromToken(refreshToken)
	if err != nil {
		return "", common.NewBusinessError("无效的刷新Token")
	}
	expired, err := s.jwtUtil.IsExpired(refreshToken)
	if err != nil || expired {
		return "", common.NewBusinessError("无效的刷新Token")
	}
	if !strings.HasSuffix(subject, RefreshSubjectSuffix) {
		return "", common.NewBusinessError("无效的刷新Token")
	}

	username := strings.TrimSuffix(subject, RefreshSubjectSuffix)
	token, err := s.jwtUtil.GenerateToken(username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info(ctx, "token refreshed", "username", username)
	return token, nil
}
