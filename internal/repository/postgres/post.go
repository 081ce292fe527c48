package postgres

import (
	"context"
	"fmt"

	"blog-platform/internal/domain/post"
	apperrors "blog-platform/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const postColumns = `id, title, cover, content, keywords, category, author, upvotes, published_at, modified_at`

type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row) (*post.Post, error) {
	p := &post.Post{}
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Cover,
		&p.Content,
		&p.Keywords,
		&p.Category,
		&p.Author,
		&p.Upvotes,
		&p.PublishedAt,
		&p.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, input post.CreatePostInput) (*post.Post, error) {
	query := `
		INSERT INTO posts (title, cover, content, keywords, category, author)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + postColumns

	p, err := scanPost(r.db.Pool.QueryRow(ctx, query,
		input.Title, input.Cover, input.Content, input.Keywords, input.Category, input.Author))
	if err != nil {
		return nil, errFailedCreatePost(err)
	}

	return p, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	p, err := scanPost(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errPostNotFound)
		}
		return nil, errFailedGetPost(err)
	}

	return p, nil
}

func (r *PostRepository) list(ctx context.Context, query string, args ...interface{}) ([]*post.Post, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListPosts(err)
	}
	defer rows.Close()

	var posts []*post.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, errFailedScanPost(err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errIteratePosts(err)
	}

	return posts, nil
}

func (r *PostRepository) List(ctx context.Context) ([]*post.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY published_at DESC`
	return r.list(ctx, query)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, author string) ([]*post.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE author = $1 ORDER BY published_at DESC`
	return r.list(ctx, query, author)
}

func (r *PostRepository) ListByKeyword(ctx context.Context, keyword string) ([]*post.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE $1 = ANY(keywords) ORDER BY published_at DESC`
	return r.list(ctx, query, keyword)
}

func (r *PostRepository) ListByCategory(ctx context.Context, category string) ([]*post.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE category = $1 ORDER BY published_at DESC`
	return r.list(ctx, query, category)
}

func (r *PostRepository) Update(ctx context.Context, id uuid.UUID, input post.UpdatePostInput) (*post.Post, error) {
	query := "UPDATE posts SET modified_at = NOW()"
	args := []interface{}{id}
	argCount := 1

	set := func(column string, value interface{}) {
		argCount++
		query += fmt.Sprintf(", %s = $%d", column, argCount)
		args = append(args, value)
	}

	if input.Title != nil {
		set("title", *input.Title)
	}
	if input.Cover != nil {
		set("cover", *input.Cover)
	}
	if input.Content != nil {
		set("content", *input.Content)
	}
	if input.Keywords != nil {
		set("keywords", input.Keywords)
	}
	if input.Category != nil {
		set("category", *input.Category)
	}
	if input.Upvotes != nil {
		set("upvotes", input.Upvotes)
	}
	if input.Author != nil {
		set("author", *input.Author)
	}

	query += " WHERE id = $1 RETURNING " + postColumns

	p, err := scanPost(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errPostNotFound)
		}
		return nil, errFailedUpdatePost(err)
	}

	return p, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	query := `DELETE FROM posts WHERE id = $1 RETURNING ` + postColumns

	p, err := scanPost(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errPostNotFound)
		}
		return nil, errFailedDeletePost(err)
	}

	return p, nil
}

// Owner returns the author id, or the empty string for legacy records that
// predate authored posts. The caller treats an empty owner as unowned.
func (r *PostRepository) Owner(ctx context.Context, id uuid.UUID) (string, error) {
	query := `SELECT author FROM posts WHERE id = $1`

	var author string
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&author)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NotFound(errPostNotFound)
		}
		return "", errFailedGetPost(err)
	}

	return author, nil
}
