package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, first_name, last_name, email, password_hash, role, status, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id int64) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.QueryRow(ctx, query, id))
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(q.QueryRow(ctx, query, strings.TrimSpace(email)))
}

// GetByIdentifier implements user.UserRepository. Email matches win over name matches.
func (r *userRepositoryImpl) GetByIdentifier(ctx context.Context, identifier string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1) OR LOWER(first_name) = LOWER($1)
		ORDER BY (LOWER(email) = LOWER($1)) DESC, id ASC
		LIMIT 1
	`
	return scanUser(q.QueryRow(ctx, query, strings.TrimSpace(identifier)))
}

// ExistsByEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID *int64) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND ($2::BIGINT IS NULL OR id <> $2))`
	if err := q.QueryRow(ctx, query, strings.TrimSpace(email), excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.ListFilter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(*filter.Search)+"%")
		argIdx++
	}
	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, string(*filter.Role))
		argIdx++
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(user.StatusFromBool(*filter.Active)))
		argIdx++
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + userOrderBy(filter.SortBy)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func userOrderBy(sortBy user.SortBy) string {
	switch sortBy {
	case user.SortByLastName:
		return "LOWER(last_name), LOWER(first_name), id"
	case user.SortByEmail:
		return "LOWER(email), id"
	case user.SortByRole:
		return "role, LOWER(first_name), id"
	default:
		return "LOWER(first_name), LOWER(last_name), id"
	}
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.FirstName,
		newUser.LastName,
		newUser.Email,
		newUser.PasswordHash,
		string(newUser.Role),
		string(newUser.Status),
	))
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_lower_key") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, err
	}
	return created, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, password_hash = $4,
			role = $5, status = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		string(u.Status),
		u.ID,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_lower_key") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, err
	}
	return updated, nil
}

// UpdateStatus implements user.UserRepository.
func (r *userRepositoryImpl) UpdateStatus(ctx context.Context, id int64, status user.Status) error {
	return r.execOne(ctx, `UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
}

// UpdateRole implements user.UserRepository.
func (r *userRepositoryImpl) UpdateRole(ctx context.Context, id int64, role user.Role) error {
	return r.execOne(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, string(role), id)
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *userRepositoryImpl) execOne(ctx context.Context, query string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
