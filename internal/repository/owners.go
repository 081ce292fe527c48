package repository

import (
	"context"
	"fmt"

	"blog-platform/internal/policy"
	apperrors "blog-platform/pkg/errors"

	"github.com/google/uuid"
)

// Resource types understood by the owner resolver.
const (
	ResourceArticle = "article"
	ResourcePost    = "post"
	ResourceComment = "comment"
	ResourceUser    = "user"
)

// OwnerResolver adapts the repositories to the policy engine's OwnerLookup
// port. Each service wires only the repositories it owns; lookups for an
// unwired type are a configuration error, not a denial the caller can probe.
type OwnerResolver struct {
	Articles ArticleRepository
	Posts    PostRepository
	Comments CommentRepository
	Users    UserRepository
}

func (r *OwnerResolver) Owner(ctx context.Context, ref policy.ResourceRef) (string, error) {
	id, err := uuid.Parse(ref.ID)
	if err != nil {
		return "", apperrors.NotFound("invalid resource id")
	}

	switch ref.Type {
	case ResourceArticle:
		if r.Articles == nil {
			return "", fmt.Errorf("article repository not configured")
		}
		return r.Articles.Owner(ctx, id)
	case ResourcePost:
		if r.Posts == nil {
			return "", fmt.Errorf("post repository not configured")
		}
		return r.Posts.Owner(ctx, id)
	case ResourceComment:
		if r.Comments == nil {
			return "", fmt.Errorf("comment repository not configured")
		}
		return r.Comments.Owner(ctx, id)
	case ResourceUser:
		// Users own themselves: the owner of a user record is its own id.
		if r.Users == nil {
			return "", fmt.Errorf("user repository not configured")
		}
		u, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return u.ID.String(), nil
	default:
		return "", fmt.Errorf("unknown resource type %q", ref.Type)
	}
}
