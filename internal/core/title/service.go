// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// TermResolver maps slugs of one taxonomy to stored terms.
type TermResolver interface {
	Resolve(ctx context.Context, field string, slugs []string) ([]*taxonomy.Term, error)
}

// Service implements the title use cases.
type Service struct {
	repo       Repository
	categories TermResolver
	genres     TermResolver
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository, categories, genres TermResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the clock used to bound the release year.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// List returns a filtered page of titles.
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	return service.repo.List(context, filter, params)
}

// Get returns one title.
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repo.FindByID(context, id)
}

// Input carries a create or a partial update. Nil fields are left unchanged
// on update. An empty Category clears it.
type Input struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

/*
Create stores a new title.

Description: Name and year are required. Category and genres are given by
slug and must already exist.

Returns:
  - *Title: The stored title as a read would return it
  - error: ValidationError for bad fields or unknown slugs
*/
func (service *Service) Create(context context.Context, input Input) (*Title, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldName, input.Name == nil, "This field is required").
		Custom(FieldYear, input.Year == nil, "This field is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Record{}
	if input.Genres == nil {
		input.Genres = &[]string{}
	}
	if err := service.merge(context, record, input); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, record); err != nil {
		return nil, err
	}

	service.logger.Info("title_created", slog.Int64("title_id", record.ID))
	return service.repo.FindByID(context, record.ID)
}

// Update applies a partial update to the title with the given ID.
func (service *Service) Update(context context.Context, id int64, input Input) (*Title, error) {
	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:          current.ID,
		Name:        current.Name,
		Year:        current.Year,
		Description: current.Description,
	}
	if current.Category != nil {
		record.CategoryID = &current.Category.ID
	}

	if err := service.merge(context, record, input); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, record, input.Genres != nil); err != nil {
		return nil, err
	}

	service.logger.Info("title_updated", slog.Int64("title_id", id))
	return service.repo.FindByID(context, id)
}

// Delete removes a title with its reviews.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("title_deleted", slog.Int64("title_id", id))
	return nil
}

// merge validates the supplied fields of input and copies them into record.
func (service *Service) merge(context context.Context, record *Record, input Input) error {
	validator := &validate.Validator{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		validator.Required(FieldName, name).MaxLen(FieldName, name, validate.MaxCatalogName)
		record.Name = name
	}
	if input.Year != nil {
		validator.Range(FieldYear, *input.Year, 0, service.now().Year())
		record.Year = *input.Year
	}
	if input.Description != nil {
		record.Description = input.Description
	}
	if err := validator.Err(); err != nil {
		return err
	}

	if input.Category != nil {
		record.CategoryID = nil
		if *input.Category != "" {
			terms, err := service.categories.Resolve(context, FieldCategory, []string{*input.Category})
			if err != nil {
				return err
			}
			record.CategoryID = &terms[0].ID
		}
	}

	if input.Genres != nil {
		terms, err := service.genres.Resolve(context, FieldGenre, *input.Genres)
		if err != nil {
			return err
		}
		record.GenreIDs = slice.Map(terms, func(term *taxonomy.Term) int64 { return term.ID })
	}

	return nil
}
