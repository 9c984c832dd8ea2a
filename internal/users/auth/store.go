// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new account and fills its timestamps.

		Returns:
		  - error: *dberr.UniqueViolation for a taken username or email
	*/
	Create(context context.Context, user *User) error

	/*
		TouchLastLogin records a successful token exchange. Changing
		last_login invalidates every other outstanding confirmation code.
	*/
	TouchLastLogin(context context.Context, id string, at time.Time) error
}

// # Volatile Data Access

// UsedCodeRepository remembers redeemed confirmation codes.
type UsedCodeRepository interface {

	/*
		Claim atomically marks codeHash as used for ttl.

		Returns:
		  - bool: false when the code had already been claimed
		  - error: connectivity failures
	*/
	Claim(context context.Context, codeHash string, ttl time.Duration) (bool, error)
}
