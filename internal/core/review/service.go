// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// permission guards every review and comment operation.
var permission sec.Predicate = sec.IsAuthorOrAdminOrModeratorOrReadOnly

// Service implements the review and comment use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ReviewInput is a review body. Nil fields are left unchanged on update.
type ReviewInput struct {
	Text  *string
	Score *int
}

// CommentInput is a comment body.
type CommentInput struct {
	Text *string
}

// # Reviews

// ListReviews returns a page of the title's reviews.
func (service *Service) ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	if err := service.repo.TitleExists(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListReviews(context, titleID, params)
}

// GetReview returns one review of the title.
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	return service.repo.FindReview(context, titleID, reviewID)
}

/*
CreateReview posts the principal's review of a title.

Description: Text and a score in [1, 10] are required. A principal that
already reviewed the title gets a ValidationError, also when a concurrent
request inserted the review between the check and the insert.
*/
func (service *Service) CreateReview(context context.Context, principal *sec.Principal, titleID int64, input ReviewInput) (*Review, error) {
	if err := sec.Authorize(permission, principal, sec.ActionCreate, nil); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Custom(FieldText, input.Text == nil, "This field is required").
		Custom(FieldScore, input.Score == nil, "This field is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if err := validateReview(input); err != nil {
		return nil, err
	}

	if err := service.repo.TitleExists(context, titleID); err != nil {
		return nil, err
	}

	reviewed, err := service.repo.HasReviewed(context, titleID, principal.ID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, apperr.ValidationError(MessageDuplicateReview)
	}

	review := &Review{TitleID: titleID, AuthorID: principal.ID, Text: *input.Text, Score: *input.Score}
	if err := service.repo.CreateReview(context, review); err != nil {
		if dberr.IsUniqueViolation(err, schema.CoreReview.UniqueAuthorTitle) {
			return nil, apperr.ValidationError(MessageDuplicateReview).WithCause(err)
		}
		return nil, err
	}

	service.logger.Info("review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.String("user_id", principal.ID),
	)
	return review, nil
}

// UpdateReview edits a review. Only its author, a moderator or an admin may.
func (service *Service) UpdateReview(context context.Context, principal *sec.Principal, titleID, reviewID int64, input ReviewInput) (*Review, error) {
	review, err := service.repo.FindReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := sec.Authorize(permission, principal, sec.ActionUpdate, review); err != nil {
		return nil, err
	}
	if err := validateReview(input); err != nil {
		return nil, err
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}

	if err := service.repo.UpdateReview(context, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_updated", slog.Int64("review_id", review.ID), slog.String("user_id", principal.ID))
	return review, nil
}

// DeleteReview removes a review. Only its author, a moderator or an admin may.
func (service *Service) DeleteReview(context context.Context, principal *sec.Principal, titleID, reviewID int64) error {
	review, err := service.repo.FindReview(context, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := sec.Authorize(permission, principal, sec.ActionDelete, review); err != nil {
		return err
	}

	if err := service.repo.DeleteReview(context, review.ID); err != nil {
		return err
	}

	service.logger.Info("review_deleted", slog.Int64("review_id", review.ID), slog.String("user_id", principal.ID))
	return nil
}

func validateReview(input ReviewInput) error {
	validator := &validate.Validator{}
	if input.Text != nil {
		validator.Required(FieldText, *input.Text)
	}
	if input.Score != nil {
		validator.Range(FieldScore, *input.Score, minScore, maxScore)
	}
	return validator.Err()
}

// # Comments

// ListComments returns a page of a review's comments.
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	if _, err := service.repo.FindReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListComments(context, reviewID, params)
}

// GetComment returns one comment addressed through its title and review.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.repo.FindReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repo.FindComment(context, reviewID, commentID)
}

// CreateComment posts the principal's comment on a review.
func (service *Service) CreateComment(context context.Context, principal *sec.Principal, titleID, reviewID int64, input CommentInput) (*Comment, error) {
	if err := sec.Authorize(permission, principal, sec.ActionCreate, nil); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Custom(FieldText, input.Text == nil, "This field is required")
	if input.Text != nil {
		validator.Required(FieldText, *input.Text)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.repo.FindReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{ReviewID: reviewID, AuthorID: principal.ID, Text: *input.Text}
	if err := service.repo.CreateComment(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
		slog.String("user_id", principal.ID),
	)
	return comment, nil
}

// UpdateComment edits a comment. Only its author, a moderator or an admin may.
func (service *Service) UpdateComment(context context.Context, principal *sec.Principal, titleID, reviewID, commentID int64, input CommentInput) (*Comment, error) {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := sec.Authorize(permission, principal, sec.ActionUpdate, comment); err != nil {
		return nil, err
	}

	if input.Text != nil {
		validator := &validate.Validator{}
		if err := validator.Required(FieldText, *input.Text).Err(); err != nil {
			return nil, err
		}
		comment.Text = *input.Text
	}

	if err := service.repo.UpdateComment(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.Int64("comment_id", comment.ID), slog.String("user_id", principal.ID))
	return comment, nil
}

// DeleteComment removes a comment. Only its author, a moderator or an admin may.
func (service *Service) DeleteComment(context context.Context, principal *sec.Principal, titleID, reviewID, commentID int64) error {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := sec.Authorize(permission, principal, sec.ActionDelete, comment); err != nil {
		return err
	}

	if err := service.repo.DeleteComment(context, comment.ID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted", slog.Int64("comment_id", comment.ID), slog.String("user_id", principal.ID))
	return nil
}
