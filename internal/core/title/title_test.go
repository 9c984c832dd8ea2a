// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # Fakes

// fakeTerms resolves slugs against a fixed set.
type fakeTerms struct {
	resource string
	terms    map[string]*taxonomy.Term
}

func newFakeTerms(resource string, slugs ...string) *fakeTerms {
	f := &fakeTerms{resource: resource, terms: make(map[string]*taxonomy.Term)}
	for i, slug := range slugs {
		f.terms[slug] = &taxonomy.Term{ID: int64(i + 1), Name: strings.ToUpper(slug), Slug: slug}
	}
	return f
}

func (f *fakeTerms) Resolve(_ context.Context, field string, slugs []string) ([]*taxonomy.Term, error) {
	var found []*taxonomy.Term
	for _, slug := range slugs {
		term, ok := f.terms[slug]
		if !ok {
			return nil, apperr.FieldInvalid(field, f.resource+" does not exist")
		}
		found = append(found, term)
	}
	return found, nil
}

func (f *fakeTerms) byID(id int64) *taxonomy.Term {
	for _, term := range f.terms {
		if term.ID == id {
			return term
		}
	}
	return nil
}

type memoryTitles struct {
	mu         sync.Mutex
	nextID     int64
	records    map[int64]title.Record
	categories *fakeTerms
	genres     *fakeTerms
}

func (m *memoryTitles) hydrate(record title.Record) *title.Title {
	t := &title.Title{ID: record.ID, Name: record.Name, Year: record.Year, Description: record.Description}
	if record.CategoryID != nil {
		t.Category = m.categories.byID(*record.CategoryID)
	}
	t.Genres = []taxonomy.Term{}
	for _, id := range record.GenreIDs {
		t.Genres = append(t.Genres, *m.genres.byID(id))
	}
	return t
}

func (m *memoryTitles) List(_ context.Context, filter title.Filter, params pagination.Params) ([]*title.Title, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*title.Title
	for id := int64(1); id <= m.nextID; id++ {
		record, ok := m.records[id]
		if !ok {
			continue
		}
		t := m.hydrate(record)
		if filter.Year != nil && t.Year != *filter.Year {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Category != "" && (t.Category == nil || t.Category.Slug != filter.Category) {
			continue
		}
		matched = append(matched, t)
	}

	start, end := params.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (m *memoryTitles) FindByID(_ context.Context, id int64) (*title.Title, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	return m.hydrate(record), nil
}

func (m *memoryTitles) Create(_ context.Context, record *title.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record.ID = m.nextID
	m.records[record.ID] = *record
	return nil
}

func (m *memoryTitles) Update(_ context.Context, record *title.Record, replaceGenres bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.records[record.ID]
	if !ok {
		return apperr.NotFound("Title")
	}
	if !replaceGenres {
		record.GenreIDs = current.GenreIDs
	}
	m.records[record.ID] = *record
	return nil
}

func (m *memoryTitles) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(m.records, id)
	return nil
}

func newService() (*title.Service, *memoryTitles) {
	categories := newFakeTerms("Category", "movie", "book")
	genres := newFakeTerms("Genre", "drama", "comedy")
	repo := &memoryTitles{records: make(map[int64]title.Record), categories: categories, genres: genres}

	service := title.NewService(repo, categories, genres, slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithClock(func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) })
	return service, repo
}

// # Service

func TestCreate(t *testing.T) {
	service, _ := newService()

	created, err := service.Create(context.Background(), title.Input{
		Name:     pointer.To("Solaris"),
		Year:     pointer.To(1972),
		Category: pointer.To("movie"),
		Genres:   pointer.To([]string{"drama"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "Solaris", created.Name)
	require.NotNil(t, created.Category)
	assert.Equal(t, "movie", created.Category.Slug)
	require.Len(t, created.Genres, 1)
	assert.Equal(t, "drama", created.Genres[0].Slug)
	assert.Nil(t, created.Rating)
}

/*
TestCreate_Validation rejects out-of-range years and unknown slugs.
*/
func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input title.Input
		field string
	}{
		{"missing_name", title.Input{Year: pointer.To(2000)}, title.FieldName},
		{"missing_year", title.Input{Name: pointer.To("x")}, title.FieldYear},
		{"future_year", title.Input{Name: pointer.To("x"), Year: pointer.To(2027)}, title.FieldYear},
		{"negative_year", title.Input{Name: pointer.To("x"), Year: pointer.To(-1)}, title.FieldYear},
		{"long_name", title.Input{Name: pointer.To(strings.Repeat("n", 257)), Year: pointer.To(2000)}, title.FieldName},
		{"unknown_category", title.Input{Name: pointer.To("x"), Year: pointer.To(2000), Category: pointer.To("song")}, title.FieldCategory},
		{"unknown_genre", title.Input{Name: pointer.To("x"), Year: pointer.To(2000), Genres: pointer.To([]string{"drama", "horror"})}, title.FieldGenre},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService()

			_, err := service.Create(context.Background(), tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.True(t, ae.HasField(tt.field), ae.Details)
		})
	}
}

func TestCreate_CurrentYearAllowed(t *testing.T) {
	service, _ := newService()

	_, err := service.Create(context.Background(), title.Input{Name: pointer.To("New"), Year: pointer.To(2026)})
	assert.NoError(t, err)
}

/*
TestUpdate_Partial keeps unspecified fields and genre links.
*/
func TestUpdate_Partial(t *testing.T) {
	service, _ := newService()
	created, err := service.Create(context.Background(), title.Input{
		Name: pointer.To("Solaris"), Year: pointer.To(1972), Category: pointer.To("movie"), Genres: pointer.To([]string{"drama"}),
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, title.Input{Name: pointer.To("Solyaris")})
	require.NoError(t, err)
	assert.Equal(t, "Solyaris", updated.Name)
	assert.Equal(t, 1972, updated.Year)
	assert.Equal(t, "movie", updated.Category.Slug)
	assert.Len(t, updated.Genres, 1)

	cleared, err := service.Update(context.Background(), created.ID, title.Input{Category: pointer.To(""), Genres: pointer.To([]string{})})
	require.NoError(t, err)
	assert.Nil(t, cleared.Category)
	assert.Empty(t, cleared.Genres)
}

func TestUpdate_Missing(t *testing.T) {
	service, _ := newService()

	_, err := service.Update(context.Background(), 42, title.Input{Name: pointer.To("x")})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

// # HTTP

func TestHandler(t *testing.T) {
	admin := &sec.Principal{ID: "a", Role: sec.RoleAdmin}
	user := &sec.Principal{ID: "u", Role: sec.RoleUser}

	service, _ := newService()
	_, err := service.Create(context.Background(), title.Input{Name: pointer.To("Solaris"), Year: pointer.To(1972), Category: pointer.To("movie")})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), title.Input{Name: pointer.To("Stalker"), Year: pointer.To(1979), Category: pointer.To("book")})
	require.NoError(t, err)

	router := title.NewHandler(service).Routes()
	serve := func(principal *sec.Principal, method, path, body string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, path, strings.NewReader(body))
		if principal != nil {
			request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	t.Run("list_filtered", func(t *testing.T) {
		recorder := serve(nil, http.MethodGet, "/?category=movie&year=1972", "")
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Results []map[string]any `json:"results"`
			Meta    pagination.Meta  `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		require.Len(t, body.Results, 1)
		assert.Equal(t, "Solaris", body.Results[0]["name"])
		assert.Nil(t, body.Results[0]["rating"])
		assert.Contains(t, body.Results[0], "rating")
		assert.Equal(t, 1, body.Meta.Total)
	})

	t.Run("bad_year_filter", func(t *testing.T) {
		for _, year := range []string{"abc", "-1", "2147483648", "9223372036854775807"} {
			assert.Equal(t, http.StatusBadRequest, serve(nil, http.MethodGet, "/?year="+year, "").Code, year)
		}
	})

	t.Run("get", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(nil, http.MethodGet, "/1", "").Code)
		assert.Equal(t, http.StatusNotFound, serve(nil, http.MethodGet, "/99", "").Code)
		assert.Equal(t, http.StatusNotFound, serve(nil, http.MethodGet, "/abc", "").Code)
	})

	t.Run("writes", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(nil, http.MethodPost, "/", `{"name":"x","year":2000}`).Code)
		assert.Equal(t, http.StatusForbidden, serve(user, http.MethodPatch, "/1", `{"name":"x"}`).Code)
		assert.Equal(t, http.StatusCreated, serve(admin, http.MethodPost, "/", `{"name":"Mirror","year":1975,"genre":["drama"]}`).Code)
		assert.Equal(t, http.StatusOK, serve(admin, http.MethodPatch, "/1", `{"description":"space"}`).Code)
		assert.Equal(t, http.StatusNoContent, serve(admin, http.MethodDelete, "/2", "").Code)
	})
}
