package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/lanternlabs/gatehouse/internal/domain"
)

type usersRepo struct {
	db querier
}

const userColumns = `id, email, username, password_hash,
	is_active, is_superuser, is_verified,
	totp_secret, totp_enabled_at, created_at, updated_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.IsActive, &u.IsSuperuser, &u.IsVerified,
		&u.TOTPSecret, &u.TOTPEnabledAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapError(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	const query = `INSERT INTO users (id, email, username, password_hash, is_active, is_superuser, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		u.ID, u.Email, u.Username, u.PasswordHash,
		u.IsActive, u.IsSuperuser, u.IsVerified,
	)
	return mapError(err)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM users WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return mapError(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	const query = `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, newHash, userID)
	return mapError(err)
}

func (r *usersRepo) UpdateTOTPSecret(ctx context.Context, userID string, secret string) error {
	const query = `UPDATE users SET totp_secret = $1, totp_enabled_at = NULL, updated_at = now()
		WHERE id = $2`
	_, err := r.db.Exec(ctx, query, secret, userID)
	return mapError(err)
}

func (r *usersRepo) EnableTOTP(ctx context.Context, userID string) error {
	const query = `UPDATE users SET totp_enabled_at = now(), updated_at = now() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return mapError(err)
}

func (r *usersRepo) DisableTOTP(ctx context.Context, userID string) error {
	const query = `UPDATE users SET totp_secret = NULL, totp_enabled_at = NULL, updated_at = now()
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return mapError(err)
}
