// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slug"
)

type Service struct {
	kind   Kind
	repo   Repository
	logger *slog.Logger
}

func NewService(kind Kind, repo Repository, logger *slog.Logger) *Service {
	return &Service{
		kind:   kind,
		repo:   repo,
		logger: logger,
	}
}

// Kind reports which taxonomy this service manages.
func (service *Service) Kind() Kind {
	return service.kind
}

func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*Term, int, error) {
	return service.repo.List(context, search, params)
}

func (service *Service) Get(context context.Context, slug string) (*Term, error) {
	return service.repo.FindBySlug(context, slug)
}

// CreateInput holds a new term. An empty Slug is derived from Name.
type CreateInput struct {
	Name string
	Slug string
}

/*
Create stores a new term.

A slug taken by a concurrent insert surfaces as the same field error as a
slug taken beforehand.
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Term, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, validate.MaxCatalogName).
		Slug(FieldSlug, input.Slug)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	term := &Term{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(context, term); err != nil {
		if dberr.IsUniqueViolation(err, service.kind.Table.UniqueSlug) {
			return nil, apperr.FieldInvalid(FieldSlug, service.kind.Resource+" with this slug already exists").WithCause(err)
		}
		return nil, err
	}

	service.logger.Info("taxonomy_term_created",
		slog.String("kind", service.kind.Resource),
		slog.String("slug", term.Slug),
	)
	return term, nil
}

// Rename changes the display name. The slug is immutable.
func (service *Service) Rename(context context.Context, slug, name string) (*Term, error) {
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, validate.MaxCatalogName)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repo.Rename(context, slug, name)
}

func (service *Service) Delete(context context.Context, slug string) error {
	if err := service.repo.Delete(context, slug); err != nil {
		return err
	}

	service.logger.Info("taxonomy_term_deleted",
		slog.String("kind", service.kind.Resource),
		slog.String("slug", slug),
	)
	return nil
}

// Resolve maps slugs to terms and fails on the first unknown one.
func (service *Service) Resolve(context context.Context, field string, slugs []string) ([]*Term, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	terms, err := service.repo.FindBySlugs(context, slugs)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(terms))
	for _, term := range terms {
		known[term.Slug] = true
	}
	for _, s := range slugs {
		if !known[s] {
			return nil, apperr.FieldInvalid(field, service.kind.Resource+` "`+s+`" does not exist`)
		}
	}
	return terms, nil
}
