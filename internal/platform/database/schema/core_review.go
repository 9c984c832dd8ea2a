package schema

// CoreReviewTable represents the 'core.review' table
type CoreReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string

	// UniqueAuthorTitle enforces one review per author and title.
	UniqueAuthorTitle string
}

// CoreReview is the schema definition for core.review
var CoreReview = CoreReviewTable{
	Table:    "core.review",
	ID:       "id",
	TitleID:  "titleid",
	AuthorID: "authorid",
	Text:     "text",
	Score:    "score",
	PubDate:  "pubdate",

	UniqueAuthorTitle: "uq_review_author_title",
}

func (t CoreReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Text, t.Score, t.PubDate}
}

// CoreCommentTable represents the 'core.comment' table
type CoreCommentTable struct {
	Table    string
	ID       string
	ReviewID string
	AuthorID string
	Text     string
	PubDate  string
}

// CoreComment is the schema definition for core.comment
var CoreComment = CoreCommentTable{
	Table:    "core.comment",
	ID:       "id",
	ReviewID: "reviewid",
	AuthorID: "authorid",
	Text:     "text",
	PubDate:  "pubdate",
}

func (t CoreCommentTable) Columns() []string {
	return []string{t.ID, t.ReviewID, t.AuthorID, t.Text, t.PubDate}
}
