package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rizqidamar/timely/internal/domain/domainerr"
	"github.com/rizqidamar/timely/internal/domain/entity"
	"github.com/rizqidamar/timely/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts the aggregate and fills server-assigned timestamps.
// The unique index on email is the authoritative uniqueness guarantee; a
// concurrent duplicate surfaces here as DuplicateEntity, the same error the
// service's advisory pre-check raises.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, phone, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Phone, u.PasswordHash, u.FirstName, u.LastName)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainerr.New(domainerr.DuplicateEntity, "user with email "+u.Email+" already exists")
		}
		return nil, err
	}
	return u, nil
}

// GetByEmail returns (nil, nil) when no user has that email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := r.scanOne(r.pool.QueryRow(ctx, selectUser+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := r.scanOne(r.pool.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.New(domainerr.NotFound, "user with id "+id+" not found")
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET is_verified = TRUE, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domainerr.New(domainerr.NotFound, "user with id "+id+" not found")
	}
	return nil
}

const selectUser = `
	SELECT id, email, phone, password_hash,
	       COALESCE(first_name, ''), COALESCE(last_name, ''),
	       is_verified, created_at, updated_at
	FROM users`

func (r *UserRepository) scanOne(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
