package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/urbe-dev/urbe-backend/internal/domain/entity"
	"github.com/urbe-dev/urbe-backend/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, first_name, last_name, email, password_hash, avatar_url, reset_password_token, token_expires, created_at, updated_at`

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.FirstName, u.LastName, u.Email, u.Password, u.Avatar, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	return r.getWhere(`id = $1`, id)
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	return r.getWhere(`email = $1`, email)
}

func (r *UserRepository) GetByResetToken(token string) (*entity.User, error) {
	return r.getWhere(`reset_password_token = $1`, token)
}

func (r *UserRepository) getWhere(cond string, arg any) (*entity.User, error) {
	ctx := context.Background()
	u := &entity.User{}
	var resetToken *string

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+cond, arg)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Avatar,
		&resetToken, &u.TokenExpires, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	if resetToken != nil {
		u.ResetPasswordToken = *resetToken
	}
	return u, nil
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now().UTC()

	var resetToken *string
	if u.ResetPasswordToken != "" {
		resetToken = &u.ResetPasswordToken
	}

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, password_hash = $4,
		    avatar_url = $5, reset_password_token = $6, token_expires = $7, updated_at = $8
		WHERE id = $9
	`, u.FirstName, u.LastName, u.Email, u.Password, u.Avatar, resetToken, u.TokenExpires, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *UserRepository) Delete(id string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
