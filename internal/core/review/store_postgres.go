// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed review store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// TitleExists returns NotFound for an unknown title.
func (repository *PostgresRepository) TitleExists(context context.Context, titleID int64) error {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	var one int
	return dberr.Wrap(repository.pool.QueryRow(context, query, titleID).Scan(&one), resourceTitle)
}

// # Reviews

// selectReview joins the author so the username can be rendered.
var selectReview = fmt.Sprintf(`
	SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s, COUNT(*) OVER()
	FROM %s r
	JOIN %s a ON a.%s = r.%s`,
	schema.CoreReview.ID, schema.CoreReview.TitleID, schema.CoreReview.AuthorID, schema.UserAccount.Username,
	schema.CoreReview.Text, schema.CoreReview.Score, schema.CoreReview.PubDate,
	schema.CoreReview.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.CoreReview.AuthorID,
)

func scanReview(row pgx.Row, total *int) (*Review, error) {
	review := &Review{}
	err := row.Scan(&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate, total)
	if err != nil {
		return nil, dberr.Wrap(err, resourceReview)
	}
	return review, nil
}

// ListReviews returns a page of a title's reviews, oldest first.
func (repository *PostgresRepository) ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	query := selectReview + fmt.Sprintf(` WHERE r.%s = $1 ORDER BY r.%s, r.%s LIMIT $2 OFFSET $3`,
		schema.CoreReview.TitleID, schema.CoreReview.PubDate, schema.CoreReview.ID)

	rows, err := repository.pool.Query(context, query, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceReview)
	}
	defer rows.Close()

	var reviews []*Review
	var total int
	for rows.Next() {
		review, err := scanReview(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}
	return reviews, total, dberr.Wrap(rows.Err(), resourceReview)
}

// FindReview returns a review only if it belongs to titleID.
func (repository *PostgresRepository) FindReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := selectReview + fmt.Sprintf(` WHERE r.%s = $1 AND r.%s = $2`, schema.CoreReview.ID, schema.CoreReview.TitleID)

	var total int
	return scanReview(repository.pool.QueryRow(context, query, reviewID, titleID), &total)
}

// HasReviewed reports whether authorID already reviewed titleID.
func (repository *PostgresRepository) HasReviewed(context context.Context, titleID int64, authorID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.CoreReview.Table, schema.CoreReview.TitleID, schema.CoreReview.AuthorID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, resourceReview)
	}
	return exists, nil
}

// CreateReview inserts a review and reads back its ID, date and author name.
func (repository *PostgresRepository) CreateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)
			RETURNING %s, %s, %s
		)
		SELECT i.%s, i.%s, a.%s
		FROM inserted i
		JOIN %s a ON a.%s = i.%s`,
		schema.CoreReview.Table,
		schema.CoreReview.TitleID, schema.CoreReview.AuthorID, schema.CoreReview.Text, schema.CoreReview.Score,
		schema.CoreReview.ID, schema.CoreReview.AuthorID, schema.CoreReview.PubDate,
		schema.CoreReview.ID, schema.CoreReview.PubDate, schema.UserAccount.Username,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.CoreReview.AuthorID,
	)

	err := repository.pool.QueryRow(context, query, review.TitleID, review.AuthorID, review.Text, review.Score).
		Scan(&review.ID, &review.PubDate, &review.Author)
	return dberr.Wrap(err, resourceReview)
}

// UpdateReview rewrites text and score. The publication date never changes.
func (repository *PostgresRepository) UpdateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.CoreReview.Table, schema.CoreReview.Text, schema.CoreReview.Score, schema.CoreReview.ID)

	return repository.execOne(context, resourceReview, query, review.ID, review.Text, review.Score)
}

// DeleteReview removes a review and its comments.
func (repository *PostgresRepository) DeleteReview(context context.Context, reviewID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreReview.Table, schema.CoreReview.ID)
	return repository.execOne(context, resourceReview, query, reviewID)
}

// # Comments

var selectComment = fmt.Sprintf(`
	SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s, COUNT(*) OVER()
	FROM %s c
	JOIN %s a ON a.%s = c.%s`,
	schema.CoreComment.ID, schema.CoreComment.ReviewID, schema.CoreComment.AuthorID, schema.UserAccount.Username,
	schema.CoreComment.Text, schema.CoreComment.PubDate,
	schema.CoreComment.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.CoreComment.AuthorID,
)

func scanComment(row pgx.Row, total *int) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.PubDate, total)
	if err != nil {
		return nil, dberr.Wrap(err, resourceComment)
	}
	return comment, nil
}

// ListComments returns a page of a review's comments, oldest first.
func (repository *PostgresRepository) ListComments(context context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	query := selectComment + fmt.Sprintf(` WHERE c.%s = $1 ORDER BY c.%s, c.%s LIMIT $2 OFFSET $3`,
		schema.CoreComment.ReviewID, schema.CoreComment.PubDate, schema.CoreComment.ID)

	rows, err := repository.pool.Query(context, query, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceComment)
	}
	defer rows.Close()

	var comments []*Comment
	var total int
	for rows.Next() {
		comment, err := scanComment(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, comment)
	}
	return comments, total, dberr.Wrap(rows.Err(), resourceComment)
}

// FindComment returns a comment only if it belongs to reviewID.
func (repository *PostgresRepository) FindComment(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := selectComment + fmt.Sprintf(` WHERE c.%s = $1 AND c.%s = $2`, schema.CoreComment.ID, schema.CoreComment.ReviewID)

	var total int
	return scanComment(repository.pool.QueryRow(context, query, commentID, reviewID), &total)
}

// CreateComment inserts a comment and reads back its ID, date and author name.
func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
			RETURNING %s, %s, %s
		)
		SELECT i.%s, i.%s, a.%s
		FROM inserted i
		JOIN %s a ON a.%s = i.%s`,
		schema.CoreComment.Table,
		schema.CoreComment.ReviewID, schema.CoreComment.AuthorID, schema.CoreComment.Text,
		schema.CoreComment.ID, schema.CoreComment.AuthorID, schema.CoreComment.PubDate,
		schema.CoreComment.ID, schema.CoreComment.PubDate, schema.UserAccount.Username,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.CoreComment.AuthorID,
	)

	err := repository.pool.QueryRow(context, query, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.PubDate, &comment.Author)
	return dberr.Wrap(err, resourceComment)
}

// UpdateComment rewrites the text.
func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.CoreComment.Table, schema.CoreComment.Text, schema.CoreComment.ID)

	return repository.execOne(context, resourceComment, query, comment.ID, comment.Text)
}

// DeleteComment removes a comment.
func (repository *PostgresRepository) DeleteComment(context context.Context, commentID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreComment.Table, schema.CoreComment.ID)
	return repository.execOne(context, resourceComment, query, commentID)
}

// execOne runs a statement that must touch exactly one row.
func (repository *PostgresRepository) execOne(context context.Context, resource, query string, args ...any) error {
	result, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}
