// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account provides user administration and self-service profiles.

# Access

  - /users and /users/{username} are admin-only. An admin may set any
    field, including role.
  - /users/me is open to any authenticated account. A role sent by a
    non-admin is ignored.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Repository Contracts

// Repository persists accounts for administration.
type Repository interface {
	// List returns accounts ordered by username. An empty username returns all.
	List(ctx context.Context, username string, params pagination.Params) ([]*auth.User, int, error)
	FindByID(ctx context.Context, id string) (*auth.User, error)
	FindByUsername(ctx context.Context, username string) (*auth.User, error)
	Create(ctx context.Context, user *auth.User) error
	// Update writes every mutable field and refreshes user.UpdatedAt.
	Update(ctx context.Context, user *auth.User) error
	Delete(ctx context.Context, id string) error
}

// # Inputs

// CreateInput holds the fields an admin supplies for a new account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}
