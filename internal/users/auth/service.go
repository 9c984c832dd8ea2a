// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username string, timeToLive time.Duration) (string, error)
}

// Service implements the signup and token exchange use cases.
type Service struct {
	userRepository     UserRepository
	usedCodeRepository UsedCodeRepository
	mailer             mail.Sender
	codes              *sec.CodeGenerator
	tokens             TokenProvider
	accessTokenTTL     time.Duration
	logger             *slog.Logger
	now                func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	usedCodeRepo UsedCodeRepository,
	mailer mail.Sender,
	codes *sec.CodeGenerator,
	tokens TokenProvider,
	accessTokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:     userRepo,
		usedCodeRepository: usedCodeRepo,
		mailer:             mailer,
		codes:              codes,
		tokens:             tokens,
		accessTokenTTL:     accessTokenTTL,
		logger:             logger,
		now:                time.Now,
	}
}

// # Signup Flow

// SignupInput holds the identity a visitor claims.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup issues a confirmation code for a new or returning account.

Description: A username and email that both belong to the same account
re-send a code for it. Neither existing creates a new account with role
user. Any other combination is a conflict on the offending fields.

Returns:
  - *User: The account the code was issued for
  - error: ValidationError for bad input or conflicts, ServiceUnavailable
    when the email could not be delivered
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {
	validator := &validate.Validator{}
	validator.Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, created, err := service.resolveAccount(context, input)
	if err != nil {
		metrics.RecordAuthEvent(eventSignup, false)
		return nil, err
	}

	code := service.codes.Make(user.CodeState())
	message := mail.ConfirmationMessage(user.Email, user.Username, constants.ConfirmationMailSubject, code)

	if err := service.mailer.Send(context, message); err != nil {
		metrics.RecordAuthEvent(eventSignup, false)
		service.logger.Error("confirmation_mail_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return nil, apperr.ServiceUnavailable("Confirmation email could not be sent, try again later", err)
	}

	metrics.RecordAuthEvent(eventSignup, true)
	service.logger.Info("confirmation_code_sent",
		slog.String("user_id", user.ID),
		slog.Bool("new_account", created),
	)

	return user, nil
}

// resolveAccount finds the account addressed by input or creates it.
func (service *Service) resolveAccount(context context.Context, input SignupInput) (*User, bool, error) {
	byUsername, err := findOptional(func() (*User, error) {
		return service.userRepository.FindByUsername(context, input.Username)
	})
	if err != nil {
		return nil, false, err
	}

	byEmail, err := findOptional(func() (*User, error) {
		return service.userRepository.FindByEmail(context, input.Email)
	})
	if err != nil {
		return nil, false, err
	}

	switch {
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		return byUsername, false, nil

	case byUsername == nil && byEmail == nil:
		user := &User{
			ID:       uuid.New(),
			Username: input.Username,
			Email:    input.Email,
			Role:     sec.RoleUser,
		}
		if err := service.userRepository.Create(context, user); err != nil {
			return nil, false, TranslateUniqueViolation(err)
		}
		return user, true, nil

	default:
		var details []apperr.FieldError
		if byUsername != nil {
			details = append(details, apperr.FieldError{Field: FieldUsername, Message: MessageUsernameTaken})
		}
		if byEmail != nil {
			details = append(details, apperr.FieldError{Field: FieldEmail, Message: MessageEmailTaken})
		}
		return nil, false, apperr.ValidationError("Validation failed", details...)
	}
}

// findOptional turns a NotFound into (nil, nil).
func findOptional(find func() (*User, error)) (*User, error) {
	user, err := find()
	if apperr.IsCode(err, apperr.CodeNotFound) {
		return nil, nil
	}
	return user, err
}

// TranslateUniqueViolation maps account constraint violations to field errors.
// Other errors are returned unchanged.
func TranslateUniqueViolation(err error) error {
	violation, ok := dberr.AsUniqueViolation(err)
	if !ok {
		return err
	}

	switch violation.Constraint {
	case schema.UserAccount.UniqueUsername:
		return apperr.FieldInvalid(FieldUsername, MessageUsernameTaken).WithCause(err)
	case schema.UserAccount.UniqueEmail:
		return apperr.FieldInvalid(FieldEmail, MessageEmailTaken).WithCause(err)
	default:
		return apperr.Internal(err)
	}
}

// # Token Exchange Flow

// TokenInput holds the credentials presented to the token endpoint.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

/*
ExchangeToken trades a confirmation code for an access token.

Description: The code must match the account's current state, be inside its
validity window and not have been redeemed before. A successful exchange
updates last_login, which retires every other outstanding code.

Returns:
  - string: Signed access token
  - error: NotFound for an unknown username, ValidationError for a bad code
*/
func (service *Service) ExchangeToken(context context.Context, input TokenInput) (string, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		metrics.RecordAuthEvent(eventTokenExchange, false)
		return "", err
	}

	if !service.codes.Check(user.CodeState(), input.ConfirmationCode) {
		metrics.RecordAuthEvent(eventTokenExchange, false)
		return "", apperr.FieldInvalid(FieldConfirmationCode, MessageInvalidCode)
	}

	claimed, err := service.usedCodeRepository.Claim(context, sec.HashCode(input.ConfirmationCode), service.codes.Remaining(input.ConfirmationCode))
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_service_claim_code_failed: %w", err))
	}
	if !claimed {
		metrics.RecordAuthEvent(eventTokenExchange, false)
		service.logger.Warn("confirmation_code_replayed", slog.String("user_id", user.ID))
		return "", apperr.FieldInvalid(FieldConfirmationCode, MessageInvalidCode)
	}

	if err := service.userRepository.TouchLastLogin(context, user.ID, service.now().UTC()); err != nil {
		return "", fmt.Errorf("auth_service_touch_last_login_failed: %w", err)
	}

	token, err := service.tokens.GenerateAccessToken(user.ID, user.Username, service.accessTokenTTL)
	if err != nil {
		return "", apperr.Internal(err)
	}

	metrics.RecordAuthEvent(eventTokenExchange, true)
	service.logger.Info("access_token_issued", slog.String("user_id", user.ID))

	return token, nil
}
