package postgres

import (
	"context"
	"fmt"

	"blog-platform/internal/domain/comment"
	apperrors "blog-platform/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const commentColumns = `id, author, author_username, content, parent_comment, upvotes, published_at, modified_at`

type CommentRepository struct {
	db *DB
}

func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func scanComment(row pgx.Row) (*comment.Comment, error) {
	c := &comment.Comment{}
	err := row.Scan(
		&c.ID,
		&c.Author,
		&c.AuthorUsername,
		&c.Content,
		&c.ParentComment,
		&c.Upvotes,
		&c.PublishedAt,
		&c.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommentRepository) Create(ctx context.Context, input comment.CreateCommentInput) (*comment.Comment, error) {
	query := `
		INSERT INTO comments (author, author_username, content, parent_comment)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + commentColumns

	c, err := scanComment(r.db.Pool.QueryRow(ctx, query,
		input.Author, input.AuthorUsername, input.Content, input.ParentComment))
	if err != nil {
		return nil, errFailedCreateComment(err)
	}

	return c, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	c, err := scanComment(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errCommentNotFound)
		}
		return nil, errFailedGetComment(err)
	}

	return c, nil
}

func (r *CommentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*comment.Comment, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListComments(err)
	}
	defer rows.Close()

	var comments []*comment.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, errFailedScanComment(err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateComments(err)
	}

	return comments, nil
}

func (r *CommentRepository) List(ctx context.Context) ([]*comment.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments ORDER BY published_at DESC`
	return r.list(ctx, query)
}

func (r *CommentRepository) ListByAuthor(ctx context.Context, author string) ([]*comment.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE author = $1 ORDER BY published_at DESC`
	return r.list(ctx, query, author)
}

func (r *CommentRepository) Update(ctx context.Context, id uuid.UUID, input comment.UpdateCommentInput) (*comment.Comment, error) {
	query := "UPDATE comments SET modified_at = NOW()"
	args := []interface{}{id}
	argCount := 1

	if input.Content != nil {
		argCount++
		query += fmt.Sprintf(", content = $%d", argCount)
		args = append(args, *input.Content)
	}
	if input.Upvotes != nil {
		argCount++
		query += fmt.Sprintf(", upvotes = $%d", argCount)
		args = append(args, input.Upvotes)
	}

	query += " WHERE id = $1 RETURNING " + commentColumns

	c, err := scanComment(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errCommentNotFound)
		}
		return nil, errFailedUpdateComment(err)
	}

	return c, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	query := `DELETE FROM comments WHERE id = $1 RETURNING ` + commentColumns

	c, err := scanComment(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errCommentNotFound)
		}
		return nil, errFailedDeleteComment(err)
	}

	return c, nil
}

func (r *CommentRepository) Owner(ctx context.Context, id uuid.UUID) (string, error) {
	query := `SELECT author FROM comments WHERE id = $1`

	var author string
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&author)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NotFound(errCommentNotFound)
		}
		return "", errFailedGetComment(err)
	}

	return author, nil
}
