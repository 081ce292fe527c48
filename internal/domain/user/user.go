package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID
	Username         string
	Email            string
	PasswordHash     string
	Role             string
	Birthday         *time.Time
	NewsSubscription bool
	LastConnected    *time.Time
	SavedArticles    []string
	UpvotedArticles  []string
	ArticlesHistory  []string
	SavedPosts       []string
	UpvotedPosts     []string
	PostsHistory     []string
	Strikes          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateUserInput struct {
	Username         string
	Email            string
	PasswordHash     string
	Birthday         *time.Time
	NewsSubscription bool
}

type UpdateUserInput struct {
	Username         *string
	Email            *string
	PasswordHash     *string
	Birthday         *time.Time
	NewsSubscription *bool
	Strikes          *int
}
