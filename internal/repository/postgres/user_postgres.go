package postgres

import (
	"context"
	"database/sql"

	"gradia/internal/model"
	"gradia/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// FindByFirebaseUID fetches the user linked to a Firebase UID.
func (r *UserPostgres) FindByFirebaseUID(ctx context.Context, uid string) (*model.User, error) {
	const q = `
		SELECT id, firebase_uid, email, created_at
		FROM users
		WHERE firebase_uid = $1
	`
	var u model.User
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, uid).Scan(
		&u.ID,
		&u.FirebaseUID,
		&u.Email,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, firebase_uid, email, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, firebase_uid, email, created_at
	`
	var out model.User
	if err := conn(ctx, r.db).QueryRowContext(ctx, q,
		u.ID,
		u.FirebaseUID,
		u.Email,
		u.CreatedAt,
	).Scan(
		&out.ID,
		&out.FirebaseUID,
		&out.Email,
		&out.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}
