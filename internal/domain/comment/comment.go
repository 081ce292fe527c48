package comment

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID             uuid.UUID
	Author         string
	AuthorUsername string
	Content        string
	ParentComment  *string
	Upvotes        []string
	PublishedAt    time.Time
	ModifiedAt     time.Time
}

type CreateCommentInput struct {
	Author         string
	AuthorUsername string
	Content        string
	ParentComment  *string
}

type UpdateCommentInput struct {
	Content *string
	Upvotes []string
}
