// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// # Actions

// Action names the operation a request performs on a resource.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// IsRead reports whether the action has no side effects.
func (a Action) IsRead() bool {
	return a == ActionList || a == ActionRetrieve
}

// ActionFor maps an HTTP method to an [Action]. detail distinguishes
// /things from /things/{id} for GET requests.
func ActionFor(method string, detail bool) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		if detail {
			return ActionRetrieve
		}
		return ActionList
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionUpdate
	}
}

// # Predicates

// Owned is implemented by resources that have an authoring account.
type Owned interface {
	OwnerID() string
}

// Predicate decides whether principal may perform action on resource.
//
// principal is nil for anonymous requests. resource is nil for
// collection-level checks (list, create, or a detail route before the
// object has been loaded).
type Predicate func(principal *Principal, action Action, resource Owned) bool

// AdminOrReadOnly allows reads to anyone and writes to admins.
func AdminOrReadOnly(principal *Principal, action Action, _ Owned) bool {
	return action.IsRead() || principal.IsAdmin()
}

// IsAdmin allows every action to admins only.
func IsAdmin(principal *Principal, _ Action, _ Owned) bool {
	return principal.IsAdmin()
}

// IsAuthenticated allows every action to any signed-in account.
func IsAuthenticated(principal *Principal, _ Action, _ Owned) bool {
	return principal != nil
}

// IsAuthorOrAdminOrModeratorOrReadOnly allows reads to anyone. Writes need
// an authenticated principal and, once the object is known, authorship or
// an admin or moderator capability.
func IsAuthorOrAdminOrModeratorOrReadOnly(principal *Principal, action Action, resource Owned) bool {
	if action.IsRead() {
		return true
	}
	if principal == nil {
		return false
	}
	if resource == nil {
		return true
	}
	return resource.OwnerID() == principal.ID || principal.IsAdmin() || principal.IsModerator()
}

// Authorize evaluates predicate and converts a denial into the matching
// error: 401 for anonymous callers, 403 for authenticated ones.
func Authorize(predicate Predicate, principal *Principal, action Action, resource Owned) error {
	if predicate(principal, action, resource) {
		return nil
	}
	if principal == nil {
		return apperr.Unauthorized("Authentication credentials were not provided")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}
