// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// resourceUser names the entity in NotFound errors.
const resourceUser = "User"

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// SelectUserColumns is the column list matching [ScanUser].
var SelectUserColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// ScanUser reads one account row selected with [SelectUserColumns].
// Columns selected after the account columns are scanned into extra.
func ScanUser(row pgx.Row, extra ...any) (*User, error) {
	user := &User{}
	var role string

	dest := []any{
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Bio, &role,
		&user.IsStaff, &user.IsSuperuser, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	if err != nil {
		return nil, err
	}

	user.Role = sec.Role(role)
	return user, nil
}

func (repository *PostgresUserRepository) findBy(context context.Context, column string, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, SelectUserColumns, schema.UserAccount.Table, column)

	user, err := ScanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}
	return user, nil
}

// FindByID returns the account with the given ID.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound(resourceUser)
	}
	return repository.findBy(context, schema.UserAccount.ID, id)
}

// FindByEmail returns the account with the given email.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email)
}

// FindByUsername returns the account with the given username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username)
}

/*
Create persists a new account into users.account.

Timestamps are assigned by the database and written back to user so the
confirmation code is computed over exactly what was stored.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FirstName, schema.UserAccount.LastName, schema.UserAccount.Bio,
		schema.UserAccount.Role, schema.UserAccount.IsStaff, schema.UserAccount.IsSuperuser,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email,
		user.FirstName, user.LastName, user.Bio,
		string(user.Role), user.IsStaff, user.IsSuperuser,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, resourceUser)
}

// TouchLastLogin records a successful token exchange.
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id, at)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser)
	}
	return nil
}

// LoadPrincipal resolves a token subject to its current role snapshot.
func (repository *PostgresUserRepository) LoadPrincipal(context context.Context, userID string) (*sec.Principal, error) {
	user, err := repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Principal(), nil
}
