// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

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
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # In-memory repository

type memoryAccounts struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func newMemoryAccounts(seed ...auth.User) *memoryAccounts {
	m := &memoryAccounts{users: make(map[string]auth.User)}
	for _, user := range seed {
		m.users[user.ID] = user
	}
	return m
}

func (m *memoryAccounts) List(_ context.Context, username string, params pagination.Params) ([]*auth.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*auth.User
	for _, user := range m.users {
		if username == "" || user.Username == username {
			clone := user
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	start, end := params.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return &user, nil
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryAccounts) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryAccounts) conflict(user *auth.User) error {
	for id, existing := range m.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return dberr.Wrap(&pgconn.PgError{Code: "23505", ConstraintName: schema.UserAccount.UniqueUsername}, "User")
		}
		if existing.Email == user.Email {
			return dberr.Wrap(&pgconn.PgError{Code: "23505", ConstraintName: schema.UserAccount.UniqueEmail}, "User")
		}
	}
	return nil
}

func (m *memoryAccounts) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.conflict(user); err != nil {
		return err
	}
	user.CreatedAt, user.UpdatedAt = time.Now(), time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *memoryAccounts) Update(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	if err := m.conflict(user); err != nil {
		return err
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *memoryAccounts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(m.users, id)
	return nil
}

// # Fixtures

var (
	alice = auth.User{ID: "u-alice", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}
	boss  = auth.User{ID: "u-boss", Username: "boss", Email: "boss@example.com", Role: sec.RoleAdmin}
	root  = auth.User{ID: "u-root", Username: "root", Email: "root@example.com", Role: sec.RoleUser, IsSuperuser: true}
)

func newService(seed ...auth.User) (*account.Service, *memoryAccounts) {
	repository := newMemoryAccounts(seed...)
	return account.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil))), repository
}

// # Service

/*
TestUpdateMe_RoleDroppedForNonAdmin applies the other fields and leaves role alone.
*/
func TestUpdateMe_RoleDroppedForNonAdmin(t *testing.T) {
	service, repository := newService(alice)

	user, err := service.UpdateMe(context.Background(), alice.Principal(), account.UpdateInput{
		Role: pointer.To("admin"),
		Bio:  pointer.To("reader"),
	})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleUser, user.Role)
	assert.Equal(t, "reader", user.Bio)

	stored, _ := repository.FindByID(context.Background(), alice.ID)
	assert.Equal(t, sec.RoleUser, stored.Role)
}

/*
TestUpdateMe_AdminMayChangeOwnRole covers both the role and the superuser flag.
*/
func TestUpdateMe_AdminMayChangeOwnRole(t *testing.T) {
	for _, admin := range []auth.User{boss, root} {
		t.Run(admin.Username, func(t *testing.T) {
			service, _ := newService(admin)

			user, err := service.UpdateMe(context.Background(), admin.Principal(), account.UpdateInput{Role: pointer.To("moderator")})
			require.NoError(t, err)
			assert.Equal(t, sec.RoleModerator, user.Role)
		})
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name      string
		input     account.CreateInput
		wantRole  sec.Role
		wantField string
	}{
		{"default_role", account.CreateInput{Username: "carol", Email: "carol@example.com"}, sec.RoleUser, ""},
		{"explicit_role", account.CreateInput{Username: "mod", Email: "mod@example.com", Role: "moderator"}, sec.RoleModerator, ""},
		{"unknown_role", account.CreateInput{Username: "carol", Email: "carol@example.com", Role: "god"}, "", auth.FieldRole},
		{"reserved_username", account.CreateInput{Username: "me", Email: "me@example.com"}, "", auth.FieldUsername},
		{"taken_username", account.CreateInput{Username: "alice", Email: "other@example.com"}, "", auth.FieldUsername},
		{"taken_email", account.CreateInput{Username: "other", Email: "alice@example.com"}, "", auth.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(alice)

			user, err := service.Create(context.Background(), tt.input)
			if tt.wantField != "" {
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.True(t, ae.HasField(tt.wantField))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.NotEmpty(t, user.ID)
		})
	}
}

func TestCreateSuperuser(t *testing.T) {
	service, _ := newService()

	user, err := service.CreateSuperuser(context.Background(), "ops", "ops@example.com")
	require.NoError(t, err)

	assert.Equal(t, sec.RoleAdmin, user.Role)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.Principal().IsModerator())
}

func TestUpdate_UnknownUser(t *testing.T) {
	service, _ := newService(alice)

	_, err := service.Update(context.Background(), "ghost", account.UpdateInput{Bio: pointer.To("x")})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestList_SearchIsExact(t *testing.T) {
	service, _ := newService(alice, boss, root)

	users, total, err := service.List(context.Background(), "ali", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Zero(t, total)

	users, total, err = service.List(context.Background(), "alice", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 1, total)
}

// # HTTP

func asPrincipal(principal *sec.Principal, next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if principal != nil {
			request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
		}
		next.ServeHTTP(writer, request)
	})
}

func serve(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_PatchMeIgnoresRole answers 200 with the role unchanged.
*/
func TestHandler_PatchMeIgnoresRole(t *testing.T) {
	service, _ := newService(alice)
	router := asPrincipal(alice.Principal(), account.NewHandler(service).Routes())

	recorder := serve(t, router, http.MethodPatch, "/me", `{"role":"admin","first_name":"Alice"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "user", body["role"])
	assert.Equal(t, "Alice", body["first_name"])
	assert.NotContains(t, body, "id")
}

/*
TestHandler_Access checks the predicate behind each route group.
*/
func TestHandler_Access(t *testing.T) {
	tests := []struct {
		name      string
		principal *sec.Principal
		method    string
		path      string
		want      int
	}{
		{"anonymous_me", nil, http.MethodGet, "/me", http.StatusUnauthorized},
		{"user_me", alice.Principal(), http.MethodGet, "/me", http.StatusOK},
		{"anonymous_list", nil, http.MethodGet, "/", http.StatusUnauthorized},
		{"user_list", alice.Principal(), http.MethodGet, "/", http.StatusForbidden},
		{"admin_list", boss.Principal(), http.MethodGet, "/?search=alice", http.StatusOK},
		{"superuser_get", root.Principal(), http.MethodGet, "/alice", http.StatusOK},
		{"admin_get_missing", boss.Principal(), http.MethodGet, "/ghost", http.StatusNotFound},
		{"admin_delete", boss.Principal(), http.MethodDelete, "/alice", http.StatusNoContent},
		{"user_delete", alice.Principal(), http.MethodDelete, "/boss", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(alice, boss, root)
			router := asPrincipal(tt.principal, account.NewHandler(service).Routes())

			assert.Equal(t, tt.want, serve(t, router, tt.method, tt.path, "").Code)
		})
	}
}

func TestHandler_AdminCreate(t *testing.T) {
	service, repository := newService(boss)
	router := asPrincipal(boss.Principal(), account.NewHandler(service).Routes())

	recorder := serve(t, router, http.MethodPost, "/", `{"username":"mod","email":"mod@example.com","role":"moderator"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	stored, err := repository.FindByUsername(context.Background(), "mod")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, stored.Role)
}
