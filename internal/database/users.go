package database

import (
	"context"
	"errors"
	"serwer-kont/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateUser = errors.New("a user with this username or email already exists")

const userColumns = `
	id,
	username,
	email,
	full_name,
	avatar_url,
	cover_image_url,
	password_hash,
	refresh_token,
	created_at,
	updated_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

type CreateUserParams struct {
	ID            uuid.UUID
	Username      string
	Email         string
	FullName      string
	AvatarURL     string
	CoverImageURL string
	PasswordHash  string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, full_name, avatar_url, cover_image_url, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING ` + userColumns

	now := time.Now()

	user, err := scanUser(q.db.QueryRow(ctx, query,
		arg.ID,
		arg.Username,
		arg.Email,
		arg.FullName,
		arg.AvatarURL,
		arg.CoverImageURL,
		arg.PasswordHash,
		now,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	return user, nil
}

// GetUserByIdentity looks a user up by username or email, interchangeably.
// Callers are expected to lowercase the identity first.
func (q *Queries) GetUserByIdentity(ctx context.Context, identity string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return scanUser(q.db.QueryRow(ctx, query, identity))
}

func (q *Queries) GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2`
	return scanUser(q.db.QueryRow(ctx, query, username, email))
}

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.db.QueryRow(ctx, query, id))
}

// SetRefreshToken overwrites the stored refresh token. Passing nil clears it,
// which invalidates every previously issued refresh token for the user.
func (q *Queries) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	query := `UPDATE users SET refresh_token = $1, updated_at = $2 WHERE id = $3`
	_, err := q.db.Exec(ctx, query, token, time.Now(), id)
	return err
}

func (q *Queries) UpdateUserPassword(ctx context.Context, id uuid.UUID, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	_, err := q.db.Exec(ctx, query, newPasswordHash, time.Now(), id)
	return err
}

type UpdateUserProfileParams struct {
	FullName *string
	Email    *string
}

func (q *Queries) UpdateUserProfile(ctx context.Context, id uuid.UUID, arg UpdateUserProfileParams) (*models.User, error) {
	query := `
		UPDATE users
		SET full_name = COALESCE($1, full_name),
		    email = COALESCE($2, email),
		    updated_at = $3
		WHERE id = $4
		RETURNING ` + userColumns

	user, err := scanUser(q.db.QueryRow(ctx, query, arg.FullName, arg.Email, time.Now(), id))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	return user, nil
}

func (q *Queries) UpdateUserAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*models.User, error) {
	query := `
		UPDATE users
		SET avatar_url = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUser(q.db.QueryRow(ctx, query, avatarURL, time.Now(), id))
}

func (q *Queries) UpdateUserCoverImage(ctx context.Context, id uuid.UUID, coverImageURL string) (*models.User, error) {
	query := `
		UPDATE users
		SET cover_image_url = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUser(q.db.QueryRow(ctx, query, coverImageURL, time.Now(), id))
}
