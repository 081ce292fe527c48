package postgres

import (
	"context"
	"fmt"

	"blog-platform/internal/domain/user"
	apperrors "blog-platform/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, role, birthday, news_subscription,
	last_connected, saved_articles, upvoted_articles, articles_history,
	saved_posts, upvoted_posts, posts_history, strikes, created_at, updated_at`

// List columns that handlers may toggle or append through the generic list
// endpoints. Anything else is rejected before the query is built.
var userListColumns = map[string]bool{
	"saved_articles":   true,
	"upvoted_articles": true,
	"articles_history": true,
	"saved_posts":      true,
	"upvoted_posts":    true,
	"posts_history":    true,
}

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Birthday,
		&u.NewsSubscription,
		&u.LastConnected,
		&u.SavedArticles,
		&u.UpvotedArticles,
		&u.ArticlesHistory,
		&u.SavedPosts,
		&u.UpvotedPosts,
		&u.PostsHistory,
		&u.Strikes,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, birthday, news_subscription)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query,
		input.Username, input.Email, input.PasswordHash, input.Birthday, input.NewsSubscription))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("user with this email already exists")
		}
		return nil, errFailedCreateUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, input user.UpdateUserInput) (*user.User, error) {
	query := "UPDATE users SET updated_at = NOW()"
	args := []interface{}{id}
	argCount := 1

	if input.Username != nil {
		argCount++
		query += fmt.Sprintf(", username = $%d", argCount)
		args = append(args, *input.Username)
	}
	if input.Email != nil {
		argCount++
		query += fmt.Sprintf(", email = $%d", argCount)
		args = append(args, *input.Email)
	}
	if input.PasswordHash != nil {
		argCount++
		query += fmt.Sprintf(", password_hash = $%d", argCount)
		args = append(args, *input.PasswordHash)
	}
	if input.Birthday != nil {
		argCount++
		query += fmt.Sprintf(", birthday = $%d", argCount)
		args = append(args, *input.Birthday)
	}
	if input.NewsSubscription != nil {
		argCount++
		query += fmt.Sprintf(", news_subscription = $%d", argCount)
		args = append(args, *input.NewsSubscription)
	}
	if input.Strikes != nil {
		argCount++
		query += fmt.Sprintf(", strikes = $%d", argCount)
		args = append(args, *input.Strikes)
	}

	query += " WHERE id = $1 RETURNING " + userColumns

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("email already exists")
		}
		return nil, errFailedUpdateUser(err)
	}

	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedDeleteUser(err)
	}

	return u, nil
}

func (r *UserRepository) TouchLastConnected(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
		UPDATE users SET last_connected = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedTouchConnected(err)
	}

	return u, nil
}

// ToggleListEntry removes the entry from the named list when present and
// appends it otherwise, returning the resulting list. Backs the save and
// upvote endpoints, which act as on/off switches.
func (r *UserRepository) ToggleListEntry(ctx context.Context, id uuid.UUID, list string, entry string) ([]string, error) {
	if !userListColumns[list] {
		return nil, apperrors.BadRequest(errUnknownUserList)
	}

	query := fmt.Sprintf(`
		UPDATE users SET %[1]s = CASE
			WHEN $2 = ANY(%[1]s) THEN array_remove(%[1]s, $2)
			ELSE array_append(%[1]s, $2)
		END, updated_at = NOW()
		WHERE id = $1
		RETURNING %[1]s`, list)

	var result []string
	err := r.db.Pool.QueryRow(ctx, query, id, entry).Scan(&result)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedToggleList(err)
	}

	return result, nil
}

// AppendListEntry appends the entry unless it is already present. Backs the
// history endpoints, where a repeat visit must not duplicate the record.
func (r *UserRepository) AppendListEntry(ctx context.Context, id uuid.UUID, list string, entry string) ([]string, error) {
	if !userListColumns[list] {
		return nil, apperrors.BadRequest(errUnknownUserList)
	}

	query := fmt.Sprintf(`
		UPDATE users SET %[1]s = CASE
			WHEN $2 = ANY(%[1]s) THEN %[1]s
			ELSE array_append(%[1]s, $2)
		END, updated_at = NOW()
		WHERE id = $1
		RETURNING %[1]s`, list)

	var result []string
	err := r.db.Pool.QueryRow(ctx, query, id, entry).Scan(&result)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedAppendList(err)
	}

	return result, nil
}

func (r *UserRepository) NewsletterRecipients(ctx context.Context) ([]string, error) {
	query := `SELECT email FROM users WHERE news_subscription = TRUE ORDER BY email`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListRecipients(err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, errFailedScanRecipient(err)
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRecipients(err)
	}

	return emails, nil
}
