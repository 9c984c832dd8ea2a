// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Repository defines the data access contract for reviews and comments.
//
// Lookups take the parent ID and report NotFound when the child exists
// under a different parent.
type Repository interface {
	// TitleExists returns NotFound for an unknown title.
	TitleExists(ctx context.Context, titleID int64) error

	ListReviews(ctx context.Context, titleID int64, params pagination.Params) ([]*Review, int, error)
	FindReview(ctx context.Context, titleID, reviewID int64) (*Review, error)
	HasReviewed(ctx context.Context, titleID int64, authorID string) (bool, error)
	// CreateReview sets ID, Author and PubDate on success.
	CreateReview(ctx context.Context, review *Review) error
	UpdateReview(ctx context.Context, review *Review) error
	DeleteReview(ctx context.Context, reviewID int64) error

	ListComments(ctx context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error)
	FindComment(ctx context.Context, reviewID, commentID int64) (*Comment, error)
	// CreateComment sets ID, Author and PubDate on success.
	CreateComment(ctx context.Context, comment *Comment) error
	UpdateComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, commentID int64) error
}
