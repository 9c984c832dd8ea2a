// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// # Service Layer

// Service orchestrates account administration and the self-service profile.
type Service struct {
	accountRepository Repository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo Repository, logger *slog.Logger) *Service {
	return &Service{accountRepository: accountRepo, logger: logger}
}

// # Administration

// List returns a page of accounts, optionally narrowed to an exact username.
func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

/*
Create registers an account on behalf of an admin.

Description: Unlike signup, no confirmation code is sent. The account
obtains a token through the regular signup flow with the same username and
email. Role defaults to user.

Returns:
  - *auth.User: The stored account
  - error: ValidationError for bad input or taken username/email
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	return service.create(context, input, false)
}

// CreateSuperuser registers an admin account that also carries the staff and
// superuser flags. It is used by the operator CLI only.
func (service *Service) CreateSuperuser(context context.Context, username, email string) (*auth.User, error) {
	return service.create(context, CreateInput{Username: username, Email: email, Role: string(sec.RoleAdmin)}, true)
}

func (service *Service) create(context context.Context, input CreateInput, superuser bool) (*auth.User, error) {
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	validator.Username(auth.FieldUsername, input.Username).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		MaxLen(auth.FieldFirstName, input.FirstName, validate.MaxPersonName).
		MaxLen(auth.FieldLastName, input.LastName, validate.MaxPersonName).
		OneOf(auth.FieldRole, input.Role, sec.RoleNames()...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:          uuid.New(),
		Username:    input.Username,
		Email:       input.Email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Bio:         input.Bio,
		Role:        sec.Role(input.Role),
		IsStaff:     superuser,
		IsSuperuser: superuser,
	}
	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, auth.TranslateUniqueViolation(err)
	}

	service.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.Bool("is_superuser", superuser),
	)
	return user, nil
}

// Get returns the account with the given username.
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	return service.accountRepository.FindByUsername(context, username)
}

// Update applies an admin's partial update to the account named username.
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	return service.apply(context, user, input)
}

// Delete removes the account named username with its reviews and comments.
func (service *Service) Delete(context context.Context, username string) error {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if err := service.accountRepository.Delete(context, user.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("user_deleted", slog.String("user_id", user.ID))
	return nil
}

// # Self-Service

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, principal *sec.Principal) (*auth.User, error) {
	return service.accountRepository.FindByID(context, principal.ID)
}

/*
UpdateMe applies a partial update to the caller's own account.

Description: A role supplied by a non-admin is dropped without error; the
remaining fields are still applied.
*/
func (service *Service) UpdateMe(context context.Context, principal *sec.Principal, input UpdateInput) (*auth.User, error) {
	if input.Role != nil && !principal.IsAdmin() {
		service.logger.Info("user_role_change_ignored", slog.String("user_id", principal.ID))
		input.Role = nil
	}

	user, err := service.accountRepository.FindByID(context, principal.ID)
	if err != nil {
		return nil, err
	}
	return service.apply(context, user, input)
}

// apply validates input, merges it into user and persists the result.
func (service *Service) apply(context context.Context, user *auth.User, input UpdateInput) (*auth.User, error) {
	validator := &validate.Validator{}
	if input.Username != nil {
		validator.Username(auth.FieldUsername, *input.Username)
		user.Username = *input.Username
	}
	if input.Email != nil {
		validator.Required(auth.FieldEmail, *input.Email).Email(auth.FieldEmail, *input.Email)
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		validator.MaxLen(auth.FieldFirstName, *input.FirstName, validate.MaxPersonName)
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		validator.MaxLen(auth.FieldLastName, *input.LastName, validate.MaxPersonName)
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		validator.OneOf(auth.FieldRole, *input.Role, sec.RoleNames()...)
		user.Role = sec.Role(*input.Role)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return nil, err
		}
		return nil, auth.TranslateUniqueViolation(err)
	}

	service.logger.Info("user_updated", slog.String("user_id", user.ID))
	return user, nil
}
