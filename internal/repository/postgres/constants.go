package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound    = "user not found"
	errArticleNotFound = "article not found"
	errPostNotFound    = "post not found"
	errCommentNotFound = "comment not found"

	errUnknownUserList = "unknown user list"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreateUserFmt      = "failed to create user: %w"
	errFailedGetUserFmt         = "failed to get user: %w"
	errFailedUpdateUserFmt      = "failed to update user: %w"
	errFailedDeleteUserFmt      = "failed to delete user: %w"
	errFailedToggleListFmt      = "failed to toggle user list entry: %w"
	errFailedAppendListFmt      = "failed to append user list entry: %w"
	errFailedListRecipientsFmt  = "failed to list newsletter recipients: %w"
	errFailedScanRecipientFmt   = "failed to scan newsletter recipient: %w"
	errIterateRecipientsFmt     = "error iterating newsletter recipients: %w"
	errFailedTouchConnectedFmt  = "failed to update last connected: %w"

	errFailedCreateArticleFmt = "failed to create article: %w"
	errFailedGetArticleFmt    = "failed to get article: %w"
	errFailedListArticlesFmt  = "failed to list articles: %w"
	errFailedScanArticleFmt   = "failed to scan article: %w"
	errIterateArticlesFmt     = "error iterating articles: %w"
	errFailedUpdateArticleFmt = "failed to update article: %w"
	errFailedDeleteArticleFmt = "failed to delete article: %w"

	errFailedCreatePostFmt = "failed to create post: %w"
	errFailedGetPostFmt    = "failed to get post: %w"
	errFailedListPostsFmt  = "failed to list posts: %w"
	errFailedScanPostFmt   = "failed to scan post: %w"
	errIteratePostsFmt     = "error iterating posts: %w"
	errFailedUpdatePostFmt = "failed to update post: %w"
	errFailedDeletePostFmt = "failed to delete post: %w"

	errFailedCreateCommentFmt = "failed to create comment: %w"
	errFailedGetCommentFmt    = "failed to get comment: %w"
	errFailedListCommentsFmt  = "failed to list comments: %w"
	errFailedScanCommentFmt   = "failed to scan comment: %w"
	errIterateCommentsFmt     = "error iterating comments: %w"
	errFailedUpdateCommentFmt = "failed to update comment: %w"
	errFailedDeleteCommentFmt = "failed to delete comment: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }

	errFailedCreateUser     = func(err error) error { return fmt.Errorf(errFailedCreateUserFmt, err) }
	errFailedGetUser        = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }
	errFailedUpdateUser     = func(err error) error { return fmt.Errorf(errFailedUpdateUserFmt, err) }
	errFailedDeleteUser     = func(err error) error { return fmt.Errorf(errFailedDeleteUserFmt, err) }
	errFailedToggleList     = func(err error) error { return fmt.Errorf(errFailedToggleListFmt, err) }
	errFailedAppendList     = func(err error) error { return fmt.Errorf(errFailedAppendListFmt, err) }
	errFailedListRecipients = func(err error) error { return fmt.Errorf(errFailedListRecipientsFmt, err) }
	errFailedScanRecipient  = func(err error) error { return fmt.Errorf(errFailedScanRecipientFmt, err) }
	errIterateRecipients    = func(err error) error { return fmt.Errorf(errIterateRecipientsFmt, err) }
	errFailedTouchConnected = func(err error) error { return fmt.Errorf(errFailedTouchConnectedFmt, err) }

	errFailedCreateArticle = func(err error) error { return fmt.Errorf(errFailedCreateArticleFmt, err) }
	errFailedGetArticle    = func(err error) error { return fmt.Errorf(errFailedGetArticleFmt, err) }
	errFailedListArticles  = func(err error) error { return fmt.Errorf(errFailedListArticlesFmt, err) }
	errFailedScanArticle   = func(err error) error { return fmt.Errorf(errFailedScanArticleFmt, err) }
	errIterateArticles     = func(err error) error { return fmt.Errorf(errIterateArticlesFmt, err) }
	errFailedUpdateArticle = func(err error) error { return fmt.Errorf(errFailedUpdateArticleFmt, err) }
	errFailedDeleteArticle = func(err error) error { return fmt.Errorf(errFailedDeleteArticleFmt, err) }

	errFailedCreatePost = func(err error) error { return fmt.Errorf(errFailedCreatePostFmt, err) }
	errFailedGetPost    = func(err error) error { return fmt.Errorf(errFailedGetPostFmt, err) }
	errFailedListPosts  = func(err error) error { return fmt.Errorf(errFailedListPostsFmt, err) }
	errFailedScanPost   = func(err error) error { return fmt.Errorf(errFailedScanPostFmt, err) }
	errIteratePosts     = func(err error) error { return fmt.Errorf(errIteratePostsFmt, err) }
	errFailedUpdatePost = func(err error) error { return fmt.Errorf(errFailedUpdatePostFmt, err) }
	errFailedDeletePost = func(err error) error { return fmt.Errorf(errFailedDeletePostFmt, err) }

	errFailedCreateComment = func(err error) error { return fmt.Errorf(errFailedCreateCommentFmt, err) }
	errFailedGetComment    = func(err error) error { return fmt.Errorf(errFailedGetCommentFmt, err) }
	errFailedListComments  = func(err error) error { return fmt.Errorf(errFailedListCommentsFmt, err) }
	errFailedScanComment   = func(err error) error { return fmt.Errorf(errFailedScanCommentFmt, err) }
	errIterateComments     = func(err error) error { return fmt.Errorf(errIterateCommentsFmt, err) }
	errFailedUpdateComment = func(err error) error { return fmt.Errorf(errFailedUpdateCommentFmt, err) }
	errFailedDeleteComment = func(err error) error { return fmt.Errorf(errFailedDeleteCommentFmt, err) }
)
