// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

type PostgresRepository struct {
	db   *pgxpool.Pool
	kind Kind
}

func NewPostgresRepository(db *pgxpool.Pool, kind Kind) *PostgresRepository {
	return &PostgresRepository{db: db, kind: kind}
}

func (repository *PostgresRepository) columns() string {
	return strings.Join(repository.kind.Table.Columns(), ", ")
}

func (repository *PostgresRepository) List(context context.Context, search string, params pagination.Params) ([]*Term, int, error) {
	table := repository.kind.Table

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() FROM %s WHERE TRUE`, repository.columns(), table.Table))
	if search != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND %s ILIKE $%d`, table.Name, argID))
		args = append(args, postgres.ContainsPattern(search))
		argID++
	}
	queryBuilder.WriteString(fmt.Sprintf(` ORDER BY %s, %s LIMIT $%d OFFSET $%d`, table.Name, table.ID, argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, repository.kind.Resource)
	}
	defer rows.Close()

	var terms []*Term
	var total int
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, repository.kind.Resource)
		}
		terms = append(terms, term)
	}

	return terms, total, dberr.Wrap(rows.Err(), repository.kind.Resource)
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, repository.columns(), repository.kind.Table.Table, repository.kind.Table.Slug)

	term := &Term{}
	err := repository.db.QueryRow(context, query, slug).Scan(&term.ID, &term.Name, &term.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, repository.kind.Resource)
	}
	return term, nil
}

func (repository *PostgresRepository) FindBySlugs(context context.Context, slugs []string) ([]*Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1)`, repository.columns(), repository.kind.Table.Table, repository.kind.Table.Slug)

	rows, err := repository.db.Query(context, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, repository.kind.Resource)
	}
	defer rows.Close()

	var terms []*Term
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug); err != nil {
			return nil, dberr.Wrap(err, repository.kind.Resource)
		}
		terms = append(terms, term)
	}
	return terms, dberr.Wrap(rows.Err(), repository.kind.Resource)
}

func (repository *PostgresRepository) Create(context context.Context, term *Term) error {
	table := repository.kind.Table
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`, table.Table, table.Name, table.Slug, table.ID)

	err := repository.db.QueryRow(context, query, term.Name, term.Slug).Scan(&term.ID)
	return dberr.Wrap(err, repository.kind.Resource)
}

func (repository *PostgresRepository) Rename(context context.Context, slug, name string) (*Term, error) {
	table := repository.kind.Table
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 RETURNING %s`, table.Table, table.Name, table.Slug, repository.columns())

	term := &Term{}
	err := repository.db.QueryRow(context, query, slug, name).Scan(&term.ID, &term.Name, &term.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, repository.kind.Resource)
	}
	return term, nil
}

// Delete removes a term. Titles lose their category or the genre link.
func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, repository.kind.Table.Table, repository.kind.Table.Slug)

	result, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, repository.kind.Resource)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(repository.kind.Resource)
	}
	return nil
}
