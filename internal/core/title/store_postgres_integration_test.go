//go:build integration

// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/postgres/pgtest"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

func seedReview(t *testing.T, pool *pgxpool.Pool, titleID int64, score int) {
	t.Helper()
	ctx := context.Background()

	userID := uuid.New()
	_, err := pool.Exec(ctx, `INSERT INTO users.account (id, username, email) VALUES ($1, $2, $3)`,
		userID, "u"+userID[:8], userID[:8]+"@example.com")
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `INSERT INTO core.review (titleid, authorid, text, score) VALUES ($1, $2, 'text', $3)`,
		titleID, userID, score)
	require.NoError(t, err)
}

/*
TestPostgresRepository_Rating averages review scores on read.
*/
func TestPostgresRepository_Rating(t *testing.T) {
	pool := pgtest.NewPool(t)
	repo := title.NewPostgresRepository(pool)
	ctx := context.Background()

	record := &title.Record{Name: "Solaris", Year: 1972}
	require.NoError(t, repo.Create(ctx, record))

	got, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)
	assert.Empty(t, got.Genres)

	seedReview(t, pool, record.ID, 4)
	seedReview(t, pool, record.ID, 8)

	got, err = repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 6.0, *got.Rating, 1e-9)
}

/*
TestPostgresRepository_GenresAndFilters links genres in one transaction and
filters by slug.
*/
func TestPostgresRepository_GenresAndFilters(t *testing.T) {
	pool := pgtest.NewPool(t)
	repo := title.NewPostgresRepository(pool)
	ctx := context.Background()

	var categoryID, dramaID, comedyID int64
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO core.category (name, slug) VALUES ('Movie', 'movie') RETURNING id`).Scan(&categoryID))
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO core.genre (name, slug) VALUES ('Drama', 'drama') RETURNING id`).Scan(&dramaID))
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO core.genre (name, slug) VALUES ('Comedy', 'comedy') RETURNING id`).Scan(&comedyID))

	for i := range 3 {
		record := &title.Record{Name: fmt.Sprintf("Film %d", i), Year: 2000 + i, CategoryID: &categoryID, GenreIDs: []int64{dramaID}}
		if i == 2 {
			record.GenreIDs = []int64{comedyID}
		}
		require.NoError(t, repo.Create(ctx, record))
	}

	titles, total, err := repo.List(ctx, title.Filter{Genre: "drama"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, titles, 2)

	year := 2002
	titles, total, err = repo.List(ctx, title.Filter{Category: "movie", Year: &year}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "comedy", titles[0].Genres[0].Slug)

	titles, total, err = repo.List(ctx, title.Filter{Name: "film %"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, titles)

	_, total, err = repo.List(ctx, title.Filter{Name: "film 1"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	titles, _, err = repo.List(ctx, title.Filter{Category: "movie", Year: &year}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, titles, 1)

	_, err = pool.Exec(ctx, `DELETE FROM core.category WHERE id = $1`, categoryID)
	require.NoError(t, err)
	got, err := repo.FindByID(ctx, titles[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
}
