package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	selectUserByEmailRe = regexp.QuoteMeta(`SELECT 1 FROM users WHERE email = $1`)
	insertUserRe        = regexp.QuoteMeta(`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`)
)

func TestCreateUser(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(selectUserByEmailRe).
		WithArgs("novo@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(insertUserRe).
		WithArgs("Novo", "novo@example.com", "hashed").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	user, err := s.CreateUser(context.Background(), "Novo", "novo@example.com", "hashed")
	require.NoError(t, err)
	assert.Equal(t, 12, user.ID)
	assert.Equal(t, "novo@example.com", user.Email)
	assert.Empty(t, user.Password, "hash never leaves the store")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(selectUserByEmailRe).
		WithArgs("ja@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	_, err := s.CreateUser(context.Background(), "Alguém", "ja@example.com", "hashed")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByEmailIncludesHash(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, password FROM users WHERE email = $1`)).
		WithArgs("maria@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(3, "Maria", "maria@example.com", "$2a$10$hash"))

	user, err := s.UserByEmail(context.Background(), "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, user.ID)
	assert.Equal(t, "$2a$10$hash", user.Password)
}

func TestUserByEmailUnknown(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, password FROM users WHERE email = $1`)).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := s.UserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
