package postgres

import (
	"context"
	"fmt"

	"blog-platform/internal/domain/article"
	apperrors "blog-platform/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const articleColumns = `id, title, intro, cover, content, audio, keywords, category, author,
	reading_time, upvotes, comment_ids, saved_by, reads, published_at, modified_at`

type ArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func scanArticle(row pgx.Row) (*article.Article, error) {
	a := &article.Article{}
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Intro,
		&a.Cover,
		&a.Content,
		&a.Audio,
		&a.Keywords,
		&a.Category,
		&a.Author,
		&a.ReadingTime,
		&a.Upvotes,
		&a.CommentIDs,
		&a.SavedBy,
		&a.Reads,
		&a.PublishedAt,
		&a.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ArticleRepository) Create(ctx context.Context, input article.CreateArticleInput) (*article.Article, error) {
	query := `
		INSERT INTO articles (title, intro, cover, content, audio, keywords, category, author, reading_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + articleColumns

	a, err := scanArticle(r.db.Pool.QueryRow(ctx, query,
		input.Title, input.Intro, input.Cover, input.Content, input.Audio,
		input.Keywords, input.Category, input.Author, input.ReadingTime))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("article with this title already exists")
		}
		return nil, errFailedCreateArticle(err)
	}

	return a, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*article.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	a, err := scanArticle(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errArticleNotFound)
		}
		return nil, errFailedGetArticle(err)
	}

	return a, nil
}

func (r *ArticleRepository) list(ctx context.Context, query string, args ...interface{}) ([]*article.Article, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListArticles(err)
	}
	defer rows.Close()

	var articles []*article.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, errFailedScanArticle(err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateArticles(err)
	}

	return articles, nil
}

func (r *ArticleRepository) List(ctx context.Context) ([]*article.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY published_at DESC`
	return r.list(ctx, query)
}

func (r *ArticleRepository) ListByKeyword(ctx context.Context, keyword string) ([]*article.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE $1 = ANY(keywords) ORDER BY published_at DESC`
	return r.list(ctx, query, keyword)
}

func (r *ArticleRepository) ListByCategory(ctx context.Context, category string) ([]*article.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE category = $1 ORDER BY published_at DESC`
	return r.list(ctx, query, category)
}

func (r *ArticleRepository) Update(ctx context.Context, id uuid.UUID, input article.UpdateArticleInput) (*article.Article, error) {
	query := "UPDATE articles SET modified_at = NOW()"
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
	if input.Intro != nil {
		set("intro", *input.Intro)
	}
	if input.Cover != nil {
		set("cover", *input.Cover)
	}
	if input.Content != nil {
		set("content", *input.Content)
	}
	if input.Audio != nil {
		set("audio", *input.Audio)
	}
	if input.Keywords != nil {
		set("keywords", input.Keywords)
	}
	if input.Category != nil {
		set("category", *input.Category)
	}
	if input.ReadingTime != nil {
		set("reading_time", *input.ReadingTime)
	}
	if input.Upvotes != nil {
		set("upvotes", input.Upvotes)
	}
	if input.CommentIDs != nil {
		set("comment_ids", input.CommentIDs)
	}
	if input.SavedBy != nil {
		set("saved_by", input.SavedBy)
	}
	if input.Reads != nil {
		set("reads", input.Reads)
	}
	if input.Author != nil {
		set("author", *input.Author)
	}

	query += " WHERE id = $1 RETURNING " + articleColumns

	a, err := scanArticle(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errArticleNotFound)
		}
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("article with this title already exists")
		}
		return nil, errFailedUpdateArticle(err)
	}

	return a, nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id uuid.UUID) (*article.Article, error) {
	query := `DELETE FROM articles WHERE id = $1 RETURNING ` + articleColumns

	a, err := scanArticle(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errArticleNotFound)
		}
		return nil, errFailedDeleteArticle(err)
	}

	return a, nil
}

func (r *ArticleRepository) Owner(ctx context.Context, id uuid.UUID) (string, error) {
	query := `SELECT author FROM articles WHERE id = $1`

	var author string
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&author)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NotFound(errArticleNotFound)
		}
		return "", errFailedGetArticle(err)
	}

	return author, nil
}
