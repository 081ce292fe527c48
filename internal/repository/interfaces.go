package repository

import (
	"context"

	"blog-platform/internal/domain/article"
	"blog-platform/internal/domain/comment"
	"blog-platform/internal/domain/post"
	"blog-platform/internal/domain/user"

	"github.com/google/uuid"
)

// Repository ports for the document store collaborator. Handlers and the
// authorization guard depend on these interfaces; concrete implementations
// live in the postgres subpackage.

type UserRepository interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, id uuid.UUID, input user.UpdateUserInput) (*user.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*user.User, error)
	TouchLastConnected(ctx context.Context, id uuid.UUID) (*user.User, error)
	ToggleListEntry(ctx context.Context, id uuid.UUID, list string, entry string) ([]string, error)
	AppendListEntry(ctx context.Context, id uuid.UUID, list string, entry string) ([]string, error)
	NewsletterRecipients(ctx context.Context) ([]string, error)
}

type ArticleRepository interface {
	Create(ctx context.Context, input article.CreateArticleInput) (*article.Article, error)
	GetByID(ctx context.Context, id uuid.UUID) (*article.Article, error)
	List(ctx context.Context) ([]*article.Article, error)
	ListByKeyword(ctx context.Context, keyword string) ([]*article.Article, error)
	ListByCategory(ctx context.Context, category string) ([]*article.Article, error)
	Update(ctx context.Context, id uuid.UUID, input article.UpdateArticleInput) (*article.Article, error)
	Delete(ctx context.Context, id uuid.UUID) (*article.Article, error)
	Owner(ctx context.Context, id uuid.UUID) (string, error)
}

type PostRepository interface {
	Create(ctx context.Context, input post.CreatePostInput) (*post.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	List(ctx context.Context) ([]*post.Post, error)
	ListByAuthor(ctx context.Context, author string) ([]*post.Post, error)
	ListByKeyword(ctx context.Context, keyword string) ([]*post.Post, error)
	ListByCategory(ctx context.Context, category string) ([]*post.Post, error)
	Update(ctx context.Context, id uuid.UUID, input post.UpdatePostInput) (*post.Post, error)
	Delete(ctx context.Context, id uuid.UUID) (*post.Post, error)
	Owner(ctx context.Context, id uuid.UUID) (string, error)
}

type CommentRepository interface {
	Create(ctx context.Context, input comment.CreateCommentInput) (*comment.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error)
	List(ctx context.Context) ([]*comment.Comment, error)
	ListByAuthor(ctx context.Context, author string) ([]*comment.Comment, error)
	Update(ctx context.Context, id uuid.UUID, input comment.UpdateCommentInput) (*comment.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) (*comment.Comment, error)
	Owner(ctx context.Context, id uuid.UUID) (string, error)
}
