// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed title store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
selectTitle is the read projection shared by List and FindByID.

  - rating: AVG over the title's reviews, NULL without reviews.
  - category: LEFT JOIN, so all three columns are NULL when unset.
  - genres: aggregated into a JSON array to avoid one query per title.
  - COUNT(*) OVER(): total matches before LIMIT.
*/
var selectTitle = fmt.Sprintf(`
	SELECT
		t.%[1]s, t.%[2]s, t.%[3]s, t.%[4]s,
		(SELECT AVG(r.%[5]s)::float8 FROM %[6]s r WHERE r.%[7]s = t.%[1]s) AS rating,
		c.%[8]s, c.%[9]s, c.%[10]s,
		COALESCE((
			SELECT json_agg(json_build_object('name', g.%[9]s, 'slug', g.%[10]s) ORDER BY g.%[9]s)
			FROM %[11]s g
			JOIN %[12]s tg ON tg.%[13]s = g.%[8]s
			WHERE tg.%[14]s = t.%[1]s
		), '[]') AS genres,
		COUNT(*) OVER() AS total_count
	FROM %[15]s t
	LEFT JOIN %[16]s c ON c.%[8]s = t.%[17]s
	WHERE TRUE`,
	schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description,
	schema.CoreReview.Score, schema.CoreReview.Table, schema.CoreReview.TitleID,
	schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
	schema.CoreGenre.Table, schema.CoreTitleGenre.Table, schema.CoreTitleGenre.GenreID, schema.CoreTitleGenre.TitleID,
	schema.CoreTitle.Table, schema.CoreCategory.Table, schema.CoreTitle.CategoryID,
)

// List returns a filtered page of titles and the total count.
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(selectTitle)

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreCategory.Slug, argID))
		args = append(args, filter.Category)
		argID++
	}

	if filter.Genre != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s
			WHERE tg.%s = t.%s AND g.%s = $%d)`,
			schema.CoreTitleGenre.Table, schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreTitleGenre.GenreID,
			schema.CoreTitleGenre.TitleID, schema.CoreTitle.ID, schema.CoreGenre.Slug, argID))
		args = append(args, filter.Genre)
		argID++
	}

	if filter.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s ILIKE $%d", schema.CoreTitle.Name, argID))
		args = append(args, postgres.ContainsPattern(filter.Name))
		argID++
	}

	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CoreTitle.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s LIMIT $%d OFFSET $%d", schema.CoreTitle.ID, argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceTitle)
	}
	defer rows.Close()

	var titles []*Title
	var total int
	for rows.Next() {
		title, err := scanTitle(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		titles = append(titles, title)
	}

	return titles, total, dberr.Wrap(rows.Err(), resourceTitle)
}

// FindByID returns one title with its rating, category and genres.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := selectTitle + fmt.Sprintf(" AND t.%s = $1", schema.CoreTitle.ID)

	var total int
	return scanTitle(repository.pool.QueryRow(context, query, id), &total)
}

func scanTitle(row pgx.Row, total *int) (*Title, error) {
	title := &Title{}
	var (
		categoryID   *int64
		categoryName *string
		categorySlug *string
		genresJSON   []byte
	)

	err := row.Scan(
		&title.ID, &title.Name, &title.Year, &title.Description,
		&title.Rating,
		&categoryID, &categoryName, &categorySlug,
		&genresJSON,
		total,
	)
	if err != nil {
		return nil, dberr.Wrap(err, resourceTitle)
	}

	if categoryID != nil {
		title.Category = &taxonomy.Term{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}

	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, apperr.Internal(fmt.Errorf("postgres: failed to unmarshal genres: %w", err))
	}

	return title, nil
}

// Create inserts the title row and its genre links in one transaction.
func (repository *PostgresRepository) Create(context context.Context, record *Record) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
		schema.CoreTitle.Table,
		schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
		schema.CoreTitle.ID,
	)

	return postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		err := transaction.QueryRow(context, query, record.Name, record.Year, record.Description, record.CategoryID).Scan(&record.ID)
		if err != nil {
			return dberr.Wrap(err, resourceTitle)
		}
		return replaceGenres(context, transaction, record.ID, record.GenreIDs)
	})
}

// Update rewrites the scalar columns and optionally the genre links.
func (repository *PostgresRepository) Update(context context.Context, record *Record, genres bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		schema.CoreTitle.Table,
		schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
		schema.CoreTitle.ID,
	)

	return postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		result, err := transaction.Exec(context, query, record.ID, record.Name, record.Year, record.Description, record.CategoryID)
		if err != nil {
			return dberr.Wrap(err, resourceTitle)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound(resourceTitle)
		}

		if !genres {
			return nil
		}
		return replaceGenres(context, transaction, record.ID, record.GenreIDs)
	})
}

/*
replaceGenres clears the title's genre links and inserts genreIDs.

The inserts are queued on a single [pgx.Batch].
*/
func replaceGenres(context context.Context, transaction pgx.Tx, titleID int64, genreIDs []int64) error {
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID)
	if _, err := transaction.Exec(context, deleteQuery, titleID); err != nil {
		return dberr.Wrap(err, resourceTitle)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID, schema.CoreTitleGenre.GenreID)
	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insertQuery, titleID, genreID)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return dberr.Wrap(err, resourceTitle)
	}
	return nil
}

// Delete removes a title with its reviews and their comments.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreTitle.Table, schema.CoreTitle.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceTitle)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(resourceTitle)
	}
	return nil
}
