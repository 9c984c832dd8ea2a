// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the works that users review.

A title belongs to at most one category and any number of genres, both
addressed by slug in requests. Its rating is the mean review score,
computed by the read query and null while the title has no reviews.
*/
package title

import "github.com/taibuivan/yamdb/internal/core/taxonomy"

// Title is a book, film or record in the catalog.
type Title struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Rating      *float64        `json:"rating"`
	Description *string         `json:"description"`
	Genres      []taxonomy.Term `json:"genre"`
	Category    *taxonomy.Term  `json:"category"`
}

// Filter narrows a title listing. Zero values are ignored.
type Filter struct {
	// Category and Genre match by slug.
	Category string
	Genre    string
	// Name matches case-insensitively anywhere in the title name.
	Name string
	Year *int
}

// Field names used in request bodies, query strings and validation details.
const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"
)

const resourceTitle = "Title"
