package service

import (
	"context"
	"time"

	"user_service/internal/logging"
	"user_service/internal/model"
	"user_service/internal/repository"
	"user_service/internal/traceid"
)

// UserService orchestrates repository calls and adds per-operation tracing
// and performance logging.
type UserService interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUsersByPage(ctx context.Context, pageNum, pageSize int) (*model.Page[model.User], error)
	GetUsersByCondition(ctx context.Context, q model.UserQuery) ([]model.User, error)
	UpdateUser(ctx context.Context, user *model.User) (bool, error)
	DeleteUserByID(ctx context.Context, id int64) (bool, error)
	DeleteUserByUsername(ctx context.Context, username string) (bool, error)
}

type userService struct {
	repo repository.UserRepository
	log  logging.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository, log logging.Logger) UserService {
	return &userService{repo: repo, log: log}
}

// logger returns a child logger bound to the request's trace id, generating
// one when the caller did not arrive through the HTTP layer.
func (s *userService) logger(ctx context.Context) (context.Context, logging.Logger) {
	id := traceid.From(ctx)
	if id == "" {
		id = traceid.New()
		ctx = traceid.Into(ctx, id)
	}
	return ctx, s.log.With("trace_id", id)
}

func perf(ctx context.Context, log logging.Logger, op string, start time.Time) {
	log.Info(ctx, "[PERFORMANCE] "+op, "duration_ms", time.Since(start).Milliseconds())
}

func (s *userService) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	ctx, log := s.logger(ctx)
	log.Info(ctx, "creating user", "username", user.Username)

	start := time.Now()
	err := s.repo.Create(ctx, user)
	perf(ctx, log, "createUser", start)
	if err != nil {
		log.Error(ctx, "failed to create user", "username", user.Username, "err", err)
		return nil, err
	}

	log.Info(ctx, "user created", "id", user.ID)
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	ctx, log := s.logger(ctx)
	log.Info(ctx, "looking up user", "id", id)

	start := time.Now()
	user, err := s.repo.FindByID(ctx, id)
	perf(ctx, log, "getUserById", start)
	if err != nil {
		log.Error(ctx, "failed to look up user", "id", id, "err", err)
		return nil, err
	}

	if user == nil {
		log.Info(ctx, "user not found", "id", id)
	}
	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	ctx, log := s.logger(ctx)
	log.Info(ctx, "listing all users")

	start := time.Now()
	users, err := s.repo.FindAll(ctx)
	perf(ctx, log, "getAllUsers", start)
	if err != nil {
		log.Error(ctx, "failed to list users", "err", err)
		return nil, err
	}

	log.Info(ctx, "listed users", "count", len(users))
	return users, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, log := s.logger(ctx)
	log.Info(ctx, "looking up user by username", "username", username)

	start := time.Now()
	user, err := s.repo.FindByUsername(ctx, username)
	perf(ctx, log, "getUserByUsername", start)
	if err != nil {
		log.Error(ctx, "failed to look up user by username", "username", username, "err", err)
		return nil, err
	}

	if user == nil {
		log.Info(ctx, "user not found", "username", username)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, log := s.logger(ctx)
	log.Info(ctx, "looking up user by email", "email", email)

	start := time.Now()
	user, err := s.repo.FindByEmail(ctx, email)
	perf(ctx, log, "getUserByEmail", start)
	if err != nil {
		log.Error(ctx, "failed to look up user by email", "email", email, "err", err)
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUsersByPage(ctx context.Context, pageNum, pageSize int) (*model.Page[model.User], error) {
	ctx, log := s.logger(ctx)
	log.Info(ctx, "paging users", "page_num", pageNum, "page_size", pageSize)

	start := time.Now()
	page, err := s.repo.FindPage(ctx, pageNum, pageSize)
	perf(ctx, log, "getUsersByPage", start)
	if err != nil {
		log.Error(ctx, "failed to page users", "err", err)
		return nil, err
	}

	log.Info(ctx, "paged users", "total", page.Total, "pages", page.Pages)
	return page, nil
}

func (s *userService) GetUsersByCondition(ctx context.Context, q model.UserQuery) ([]model.User, error) {
	ctx, log := s.logger(ctx)
	log.Info(ctx, "searching users", "username", q.Username, "email", q.Email, "status", q.Status)

	start := time.Now()
	users, err := s.repo.FindByCondition(ctx, q)
	perf(ctx, log, "getUsersByCondition", start)
	if err != nil {
		log.Error(ctx, "failed to search users", "err", err)
		return nil, err
	}

	log.Info(ctx, "searched users", "count", len(users))
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, user *model.User) (bool, error) {
	ctx, log := s.logger(ctx)
	log.Info(ctx, "updating user", "id", user.ID)

	start := time.Now()
	affected, err := s.repo.Update(ctx, user)
	perf(ctx, log, "updateUser", start)
	if err != nil {
		log.Error(ctx, "failed to update user", "id", user.ID, "err", err)
		return false, err
	}

	if affected == 0 {
		log.Info(ctx, "update matched no rows", "id", user.ID)
		return false, nil
	}
	log.Info(ctx, "user updated", "id", user.ID)
	return true, nil
}

func (s *userService) DeleteUserByID(ctx context.Context, id int64) (bool, error) {
	ctx, log := s.logger(ctx)
	log.Info(ctx, "deleting user", "id", id)

	start := time.Now()
	affected, err := s.repo.DeleteByID(ctx, id)
	perf(ctx, log, "deleteUserById", start)
	if err != nil {
		log.Error(ctx, "failed to delete user", "id", id, "err", err)
		return false, err
	}

	if affected == 0 {
		log.Info(ctx, "delete matched no rows", "id", id)
		return false, nil
	}
	log.Info(ctx, "user deleted", "id", id)
	return true, nil
}

func (s *userService) DeleteUserByUsername(ctx context.Context, username string) (bool, error) {
	ctx, log := s.logger(ctx)
	log.Info(ctx, "deleting users by username", "username", username)

	start := time.Now()
	affected, err := s.repo.DeleteByUsername(ctx, username)
	perf(ctx, log, "deleteUserByUsername", start)
	if err != nil {
		log.Error(ctx, "failed to delete users by username", "username", username, "err", err)
		return false, err
	}

	if affected == 0 {
		log.Info(ctx, "delete matched no rows", "username", username)
		return false, nil
	}
	log.Info(ctx, "users deleted", "username", username, "count", affected)
	return true, nil
}
