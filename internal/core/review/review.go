// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements reviews of titles and the comment threads under
them.

# Rules

  - One review per author and title. A second one is a validation error,
    whether caught by the pre-check or by the database constraint.
  - Anyone may read. Any signed-in account may write new entries.
    Changing or deleting an entry requires authorship, or the moderator or
    admin capability.
  - Entries are addressed through their parent: a review that is not under
    the given title, or a comment that is not under the given review, is
    not found.
*/
package review

import "time"

// Review is a scored opinion about a title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// OwnerID implements sec.Owned.
func (r *Review) OwnerID() string { return r.AuthorID }

// Comment is a reply to a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// OwnerID implements sec.Owned.
func (c *Comment) OwnerID() string { return c.AuthorID }

// Field names used in request bodies and validation details.
const (
	FieldText  = "text"
	FieldScore = "score"
)

const (
	resourceTitle   = "Title"
	resourceReview  = "Review"
	resourceComment = "Comment"

	// MessageDuplicateReview is returned for a second review of one title.
	MessageDuplicateReview = "You have already reviewed this title"

	minScore = 1
	maxScore = 10
)
