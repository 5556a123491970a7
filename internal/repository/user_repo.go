package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"user_service/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it as well, which keeps the repository testable without a live database.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	FindByCondition(ctx context.Context, q model.UserQuery) ([]model.User, error)
	FindPage(ctx context.Context, pageNum, pageSize int) (*model.Page[model.User], error)
	Update(ctx context.Context, user *model.User) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, phone, age, status, password_hash, created_at, updated_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.Age, &u.Status,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (username, email, phone, age, status, password_hash)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, user.Username, user.Email, user.Phone, user.Age, user.Status, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by ID. Returns (nil, nil) when no row matches;
// the service layer decides whether that is an error.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := scanUser(r.db.QueryRow(ctx, sql, id), user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByUsername retrieves a user by their unique username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	if err := scanUser(r.db.QueryRow(ctx, sql, username), user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves the first user with the given email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1 ORDER BY id LIMIT 1`
	if err := scanUser(r.db.QueryRow(ctx, sql, email), user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindAll retrieves every user ordered by id
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// FindByCondition retrieves users matching the optional filters:
// username and email match with LIKE, status with equality.
func (r *userRepository) FindByCondition(ctx context.Context, q model.UserQuery) ([]model.User, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + userColumns + ` FROM users WHERE 1=1`)
	args := []any{}
	argCount := 1

	if q.Username != "" {
		sb.WriteString(fmt.Sprintf(" AND username LIKE '%%' || $%d || '%%'", argCount))
		args = append(args, q.Username)
		argCount++
	}
	if q.Email != "" {
		sb.WriteString(fmt.Sprintf(" AND email LIKE '%%' || $%d || '%%'", argCount))
		args = append(args, q.Email)
		argCount++
	}
	if q.Status != nil {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argCount))
		args = append(args, *q.Status)
	}

	sb.WriteString(" ORDER BY id")

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by condition: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// FindPage retrieves one page of users plus the total count
func (r *userRepository) FindPage(ctx context.Context, pageNum, pageSize int) (*model.Page[model.User], error) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	sql := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, sql, pageSize, (pageNum-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query user page: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}

	page := model.NewPage(users, total, pageNum, pageSize)
	return &page, nil
}

// Update overwrites a user's mutable fields by id and reports how many rows
// matched. Zero means the id does not exist.
func (r *userRepository) Update(ctx context.Context, user *model.User) (int64, error) {
	sql := `UPDATE users SET username = $1, email = $2, phone = $3, age = $4, status = $5
            WHERE id = $6`
	tag, err := r.db.Exec(ctx, sql, user.Username, user.Email, user.Phone, user.Age, user.Status, user.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update user: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByID removes a user by id and reports how many rows were deleted
func (r *userRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByUsername removes users matching the username predicate
func (r *userRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user by username: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.Age, &u.Status,
			&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}
