// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Repository defines the data access contract for one [Kind].
type Repository interface {
	// List returns terms ordered by name whose name contains search.
	List(ctx context.Context, search string, params pagination.Params) ([]*Term, int, error)
	FindBySlug(ctx context.Context, slug string) (*Term, error)
	// FindBySlugs returns the terms matching slugs. Unknown slugs are skipped.
	FindBySlugs(ctx context.Context, slugs []string) ([]*Term, error)
	Create(ctx context.Context, term *Term) error
	Rename(ctx context.Context, slug, name string) (*Term, error)
	Delete(ctx context.Context, slug string) error
}
