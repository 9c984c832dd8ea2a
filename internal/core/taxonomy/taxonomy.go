// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package taxonomy manages the two slug-addressed lookups of the catalog,
categories and genres.

Both share one table layout and one set of rules: a name, and a unique slug
that is derived from the name when omitted and never changes afterwards.
A [Kind] selects which of the two a service instance manages.
*/
package taxonomy

import "github.com/taibuivan/yamdb/internal/platform/database/schema"

// Term is a category or a genre.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Kind binds a taxonomy to its table and display name.
type Kind struct {
	// Resource names the entity in error messages.
	Resource string
	Table    schema.TaxonomyTable
}

var (
	Category = Kind{Resource: "Category", Table: schema.CoreCategory}
	Genre    = Kind{Resource: "Genre", Table: schema.CoreGenre}
)

// Field names used in request bodies and validation details.
const (
	FieldName = "name"
	FieldSlug = "slug"
)
