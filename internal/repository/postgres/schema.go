package postgres

import (
	"context"
	"fmt"
)

// InitSchema creates the tables a service depends on if they do not exist.
// Each service bootstraps only its own collection plus the shared users
// table needed for ownership lookups.
func (db *DB) InitSchema(ctx context.Context, statements ...string) error {
	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

const SchemaUsers = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user',
	birthday DATE,
	news_subscription BOOLEAN NOT NULL DEFAULT FALSE,
	last_connected TIMESTAMPTZ,
	saved_articles TEXT[] NOT NULL DEFAULT '{}',
	upvoted_articles TEXT[] NOT NULL DEFAULT '{}',
	articles_history TEXT[] NOT NULL DEFAULT '{}',
	saved_posts TEXT[] NOT NULL DEFAULT '{}',
	upvoted_posts TEXT[] NOT NULL DEFAULT '{}',
	posts_history TEXT[] NOT NULL DEFAULT '{}',
	strikes INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const SchemaArticles = `
CREATE TABLE IF NOT EXISTS articles (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title TEXT NOT NULL UNIQUE,
	intro TEXT NOT NULL,
	cover TEXT NOT NULL,
	content TEXT NOT NULL,
	audio TEXT NOT NULL DEFAULT '',
	keywords TEXT[] NOT NULL DEFAULT '{}',
	category TEXT NOT NULL,
	author TEXT NOT NULL,
	reading_time INTEGER NOT NULL DEFAULT 0,
	upvotes TEXT[] NOT NULL DEFAULT '{}',
	comment_ids TEXT[] NOT NULL DEFAULT '{}',
	saved_by TEXT[] NOT NULL DEFAULT '{}',
	reads TEXT[] NOT NULL DEFAULT '{}',
	published_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	modified_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const SchemaPosts = `
CREATE TABLE IF NOT EXISTS posts (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title TEXT NOT NULL,
	cover TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	keywords TEXT[] NOT NULL DEFAULT '{}',
	category TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	upvotes TEXT[] NOT NULL DEFAULT '{}',
	published_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	modified_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const SchemaComments = `
CREATE TABLE IF NOT EXISTS comments (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	author TEXT NOT NULL,
	author_username TEXT NOT NULL,
	content TEXT NOT NULL,
	parent_comment TEXT,
	upvotes TEXT[] NOT NULL DEFAULT '{}',
	published_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	modified_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
