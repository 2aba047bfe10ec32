package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/findmyroom/findmyroom-api/internal/domain/entity"
	"github.com/findmyroom/findmyroom-api/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, first_name, last_name, email, password_hash,
	COALESCE(google_id, ''), COALESCE(profile_picture, ''),
	is_verified, reset_otp, reset_otp_expiry, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, google_id, profile_picture, is_verified)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7)
		RETURNING id, created_at, updated_at
	`, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.GoogleID, u.ProfilePicture, u.IsVerified)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *UserRepository) getBy(ctx context.Context, cond string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+cond, arg)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.GoogleID, &u.ProfilePicture, &u.IsVerified,
		&u.ResetOTP, &u.ResetOTPExpiry, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// AttachGoogleID links a federated identity to an existing account. A google_id
// is never reassigned; the unique index surfaces any attempt as a duplicate.
func (r *UserRepository) AttachGoogleID(ctx context.Context, userID, googleID, picture string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET google_id = $2,
		    profile_picture = COALESCE(profile_picture, NULLIF($3, '')),
		    is_verified = TRUE,
		    updated_at = now()
		WHERE id = $1 AND google_id IS NULL
	`, userID, googleID, picture)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateUser
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetResetOTP(ctx context.Context, email, otp string, expiry time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_otp = $2, reset_otp_expiry = $3, updated_at = now()
		WHERE email = $1
	`, email, otp, expiry)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ConsumeOTPAndSetPassword is the single atomic step that makes a reset code
// single-use: the update is keyed on the still-matching code, so two racing
// submissions resolve to one success and one ErrOTPMismatch.
func (r *UserRepository) ConsumeOTPAndSetPassword(ctx context.Context, email, otp, newHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $3, reset_otp = NULL, reset_otp_expiry = NULL, updated_at = now()
		WHERE email = $1 AND reset_otp = $2
	`, email, otp, newHash)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrOTPMismatch
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
