// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the YaMDb identity model and the passwordless
signup flow.

# Flow

 1. POST /auth/signup registers (or re-identifies) an account and mails a
    confirmation code bound to the account's current state.
 2. POST /auth/token exchanges username + code for an RS256 access token.

There are no passwords and no refresh tokens. A code stops working as soon
as the account changes, when its validity window closes, or once redeemed.
*/
package auth

import (
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Domain Entities

// User represents a YaMDb account.
type User struct {
	ID          string     `json:"-"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Bio         string     `json:"bio"`
	Role        sec.Role   `json:"role"`
	IsStaff     bool       `json:"-"`
	IsSuperuser bool       `json:"-"`
	LastLoginAt *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// Principal returns the authorization snapshot of the account.
func (user *User) Principal() *sec.Principal {
	return &sec.Principal{
		ID:          user.ID,
		Username:    user.Username,
		Role:        user.Role,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}

// CodeState returns the fields a confirmation code is bound to.
func (user *User) CodeState() sec.CodeState {
	return sec.CodeState{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		LastLogin:   user.LastLoginAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// IsAdmin reports role admin or the superuser flag.
func (user *User) IsAdmin() bool {
	return user.Principal().IsAdmin()
}

// IsModerator reports role moderator or the staff flag.
func (user *User) IsModerator() bool {
	return user.Principal().IsModerator()
}

// # Field Identifiers

// Field names used in request bodies and validation details.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldAccess           = "access"
	FieldRole             = "role"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
)

// Messages shared with the account package.
const (
	MessageUsernameTaken = "A user with that username already exists"
	MessageEmailTaken    = "A user with that email already exists"
	MessageInvalidCode   = "Invalid confirmation code"
)

// # Event names

const (
	eventSignup        = "signup"
	eventTokenExchange = "token_exchange"
)
