package post

import (
	"time"

	"github.com/google/uuid"
)

// Post is a user-authored publication. Records migrated from the legacy
// portfolio-card model carry no author; for those, ownership checks do not
// apply and the role minimum is the whole policy.
type Post struct {
	ID          uuid.UUID
	Title       string
	Cover       string
	Content     string
	Keywords    []string
	Category    string
	Author      string
	Upvotes     []string
	PublishedAt time.Time
	ModifiedAt  time.Time
}

type CreatePostInput struct {
	Title    string
	Cover    string
	Content  string
	Keywords []string
	Category string
	Author   string
}

type UpdatePostInput struct {
	Title    *string
	Cover    *string
	Content  *string
	Keywords []string
	Category *string
	Upvotes  []string

	// Author may only be reassigned through the admin update route.
	Author *string
}
