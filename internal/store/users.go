package store

import (
	"context"
	"database/sql"

	"github.com/pratoexpress/delivery/pkg/models"
)

// CreateUser inserts a new user with an already-hashed password. The email
// is checked before the insert, mirroring the select-then-insert shape the
// registration flow has always had; the unique constraint backstops races.
func (s *Store) CreateUser(ctx context.Context, name, email, hashedPassword string) (*models.User, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE email = $1`, email).Scan(&exists)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	user := &models.User{Name: name, Email: email}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
		name, email, hashedPassword).Scan(&user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserByEmail returns the user including the stored password hash, for
// login verification. Returns sql.ErrNoRows when the email is unknown.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password FROM users WHERE email = $1`,
		email).Scan(&user.ID, &user.Name, &user.Email, &user.Password)
	if err != nil {
		return nil, err
	}
	return user, nil
}
