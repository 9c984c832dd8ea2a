// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

type memoryTerms struct {
	mu     sync.Mutex
	kind   taxonomy.Kind
	nextID int64
	terms  map[string]*taxonomy.Term
}

func newMemoryTerms(kind taxonomy.Kind, seed ...taxonomy.Term) *memoryTerms {
	m := &memoryTerms{kind: kind, terms: make(map[string]*taxonomy.Term)}
	for _, term := range seed {
		m.nextID++
		term.ID = m.nextID
		m.terms[term.Slug] = &term
	}
	return m
}

func (m *memoryTerms) List(_ context.Context, search string, params pagination.Params) ([]*taxonomy.Term, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*taxonomy.Term
	for _, term := range m.terms {
		if strings.Contains(strings.ToLower(term.Name), strings.ToLower(search)) {
			matched = append(matched, term)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	start, end := params.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (m *memoryTerms) FindBySlug(_ context.Context, slug string) (*taxonomy.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if term, ok := m.terms[slug]; ok {
		return term, nil
	}
	return nil, apperr.NotFound(m.kind.Resource)
}

func (m *memoryTerms) FindBySlugs(_ context.Context, slugs []string) ([]*taxonomy.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*taxonomy.Term
	for _, slug := range slugs {
		if term, ok := m.terms[slug]; ok {
			found = append(found, term)
		}
	}
	return found, nil
}

func (m *memoryTerms) Create(_ context.Context, term *taxonomy.Term) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.terms[term.Slug]; taken {
		return dberr.Wrap(&pgconn.PgError{Code: "23505", ConstraintName: m.kind.Table.UniqueSlug}, m.kind.Resource)
	}
	m.nextID++
	term.ID = m.nextID
	clone := *term
	m.terms[term.Slug] = &clone
	return nil
}

func (m *memoryTerms) Rename(_ context.Context, slug, name string) (*taxonomy.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	term, ok := m.terms[slug]
	if !ok {
		return nil, apperr.NotFound(m.kind.Resource)
	}
	term.Name = name
	return term, nil
}

func (m *memoryTerms) Delete(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.terms[slug]; !ok {
		return apperr.NotFound(m.kind.Resource)
	}
	delete(m.terms, slug)
	return nil
}

func newService(kind taxonomy.Kind, seed ...taxonomy.Term) *taxonomy.Service {
	repo := newMemoryTerms(kind, seed...)
	return taxonomy.NewService(kind, repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestCreate_SlugRules derives, validates and deduplicates slugs.
*/
func TestCreate_SlugRules(t *testing.T) {
	tests := []struct {
		name      string
		input     taxonomy.CreateInput
		wantSlug  string
		wantField string
	}{
		{"derived", taxonomy.CreateInput{Name: "Science Fiction"}, "science-fiction", ""},
		{"explicit", taxonomy.CreateInput{Name: "Films", Slug: "movie_2"}, "movie_2", ""},
		{"invalid", taxonomy.CreateInput{Name: "Films", Slug: "not a slug"}, "", taxonomy.FieldSlug},
		{"underivable", taxonomy.CreateInput{Name: "???"}, "", taxonomy.FieldSlug},
		{"taken", taxonomy.CreateInput{Name: "Books again", Slug: "books"}, "", taxonomy.FieldSlug},
		{"missing_name", taxonomy.CreateInput{Slug: "empty"}, "", taxonomy.FieldName},
		{"long_name", taxonomy.CreateInput{Name: strings.Repeat("x", 257), Slug: "long"}, "", taxonomy.FieldName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(taxonomy.Category, taxonomy.Term{Name: "Books", Slug: "books"})

			term, err := service.Create(context.Background(), tt.input)
			if tt.wantField != "" {
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.True(t, ae.HasField(tt.wantField))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, term.Slug)
		})
	}
}

func TestRename_KeepsSlug(t *testing.T) {
	service := newService(taxonomy.Genre, taxonomy.Term{Name: "Drama", Slug: "drama"})

	term, err := service.Rename(context.Background(), "drama", "Melodrama")
	require.NoError(t, err)
	assert.Equal(t, "Melodrama", term.Name)
	assert.Equal(t, "drama", term.Slug)

	_, err = service.Rename(context.Background(), "ghost", "x")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestResolve(t *testing.T) {
	service := newService(taxonomy.Genre,
		taxonomy.Term{Name: "Drama", Slug: "drama"},
		taxonomy.Term{Name: "Comedy", Slug: "comedy"},
	)

	terms, err := service.Resolve(context.Background(), "genre", []string{"drama", "comedy"})
	require.NoError(t, err)
	assert.Len(t, terms, 2)

	_, err = service.Resolve(context.Background(), "genre", []string{"drama", "horror"})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.True(t, ae.HasField("genre"))
}

func TestList_SearchContains(t *testing.T) {
	service := newService(taxonomy.Genre,
		taxonomy.Term{Name: "Drama", Slug: "drama"},
		taxonomy.Term{Name: "Melodrama", Slug: "melodrama"},
		taxonomy.Term{Name: "Comedy", Slug: "comedy"},
	)

	terms, total, err := service.List(context.Background(), "drama", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, terms, 2)
}

/*
TestHandler_AdminOrReadOnly lets anyone read and only admins write.
*/
func TestHandler_AdminOrReadOnly(t *testing.T) {
	user := &sec.Principal{ID: "u1", Role: sec.RoleUser}
	moderator := &sec.Principal{ID: "u2", Role: sec.RoleModerator}
	admin := &sec.Principal{ID: "u3", Role: sec.RoleAdmin}

	tests := []struct {
		name      string
		principal *sec.Principal
		method    string
		path      string
		body      string
		want      int
	}{
		{"anonymous_list", nil, http.MethodGet, "/", "", http.StatusOK},
		{"anonymous_get", nil, http.MethodGet, "/books", "", http.StatusOK},
		{"anonymous_create", nil, http.MethodPost, "/", `{"name":"Films"}`, http.StatusUnauthorized},
		{"user_create", user, http.MethodPost, "/", `{"name":"Films"}`, http.StatusForbidden},
		{"moderator_delete", moderator, http.MethodDelete, "/books", "", http.StatusForbidden},
		{"admin_create", admin, http.MethodPost, "/", `{"name":"Films"}`, http.StatusCreated},
		{"admin_rename", admin, http.MethodPatch, "/books", `{"name":"Novels"}`, http.StatusOK},
		{"admin_delete", admin, http.MethodDelete, "/books", "", http.StatusNoContent},
		{"admin_delete_missing", admin, http.MethodDelete, "/ghost", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(taxonomy.Category, taxonomy.Term{Name: "Books", Slug: "books"})
			router := taxonomy.NewHandler(service).Routes()

			request := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.principal != nil {
				request = request.WithContext(ctxutil.WithPrincipal(request.Context(), tt.principal))
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.want, recorder.Code)
		})
	}
}
