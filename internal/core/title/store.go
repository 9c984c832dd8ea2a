// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Record is the stored shape of a title: scalar columns plus references.
type Record struct {
	ID          int64
	Name        string
	Year        int
	Description *string
	CategoryID  *int64
	GenreIDs    []int64
}

// Repository defines the data access contract for titles.
type Repository interface {
	List(ctx context.Context, filter Filter, params pagination.Params) ([]*Title, int, error)
	FindByID(ctx context.Context, id int64) (*Title, error)
	// Create inserts the title and its genre links atomically and sets record.ID.
	Create(ctx context.Context, record *Record) error
	// Update rewrites the scalar columns. Genre links are replaced only when
	// replaceGenres is set.
	Update(ctx context.Context, record *Record, replaceGenres bool) error
	Delete(ctx context.Context, id int64) error
}
