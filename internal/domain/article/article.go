package article

import (
	"time"

	"github.com/google/uuid"
)

type Article struct {
	ID          uuid.UUID
	Title       string
	Intro       string
	Cover       string
	Content     string
	Audio       string
	Keywords    []string
	Category    string
	Author      string
	ReadingTime int
	Upvotes     []string
	CommentIDs  []string
	SavedBy     []string
	Reads       []string
	PublishedAt time.Time
	ModifiedAt  time.Time
}

type CreateArticleInput struct {
	Title       string
	Intro       string
	Cover       string
	Content     string
	Audio       string
	Keywords    []string
	Category    string
	Author      string
	ReadingTime int
}

type UpdateArticleInput struct {
	Title       *string
	Intro       *string
	Cover       *string
	Content     *string
	Audio       *string
	Keywords    []string
	Category    *string
	ReadingTime *int
	Upvotes     []string
	CommentIDs  []string
	SavedBy     []string
	Reads       []string

	// Author may only be reassigned through the admin update route.
	Author *string
}
