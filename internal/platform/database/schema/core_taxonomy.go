package schema

// TaxonomyTable describes the two slug-addressed lookup tables, 'core.category'
// and 'core.genre', which share one layout.
type TaxonomyTable struct {
	Table      string
	ID         string
	Name       string
	Slug       string
	UniqueSlug string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = TaxonomyTable{
	Table:      "core.category",
	ID:         "id",
	Name:       "name",
	Slug:       "slug",
	UniqueSlug: "uq_category_slug",
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = TaxonomyTable{
	Table:      "core.genre",
	ID:         "id",
	Name:       "name",
	Slug:       "slug",
	UniqueSlug: "uq_genre_slug",
}

func (t TaxonomyTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
