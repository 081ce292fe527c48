package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog-platform/internal/domain/post"
	"blog-platform/internal/httpserver"
	"blog-platform/internal/identity"
	"blog-platform/internal/policy"
	"blog-platform/internal/repository"
	apperrors "blog-platform/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type fakePostRepo struct {
	byID map[uuid.UUID]*post.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{byID: make(map[uuid.UUID]*post.Post)}
}

func (r *fakePostRepo) Create(ctx context.Context, input post.CreatePostInput) (*post.Post, error) {
	p := &post.Post{
		ID:          uuid.New(),
		Title:       input.Title,
		Cover:       input.Cover,
		Content:     input.Content,
		Keywords:    input.Keywords,
		Category:    input.Category,
		Author:      input.Author,
		PublishedAt: time.Now(),
		ModifiedAt:  time.Now(),
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	return p, nil
}

func (r *fakePostRepo) List(ctx context.Context) ([]*post.Post, error) {
	items := make([]*post.Post, 0, len(r.byID))
	for _, p := range r.byID {
		items = append(items, p)
	}
	return items, nil
}

func (r *fakePostRepo) ListByAuthor(ctx context.Context, author string) ([]*post.Post, error) {
	var items []*post.Post
	for _, p := range r.byID {
		if p.Author == author {
			items = append(items, p)
		}
	}
	return items, nil
}

func (r *fakePostRepo) ListByKeyword(ctx context.Context, keyword string) ([]*post.Post, error) {
	var items []*post.Post
	for _, p := range r.byID {
		for _, k := range p.Keywords {
			if k == keyword {
				items = append(items, p)
				break
			}
		}
	}
	return items, nil
}

func (r *fakePostRepo) ListByCategory(ctx context.Context, category string) ([]*post.Post, error) {
	var items []*post.Post
	for _, p := range r.byID {
		if p.Category == category {
			items = append(items, p)
		}
	}
	return items, nil
}

func (r *fakePostRepo) Update(ctx context.Context, id uuid.UUID, input post.UpdatePostInput) (*post.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	if input.Title != nil {
		p.Title = *input.Title
	}
	if input.Content != nil {
		p.Content = *input.Content
	}
	if input.Author != nil {
		p.Author = *input.Author
	}
	p.ModifiedAt = time.Now()
	return p, nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	delete(r.byID, id)
	return p, nil
}

func (r *fakePostRepo) Owner(ctx context.Context, id uuid.UUID) (string, error) {
	p, ok := r.byID[id]
	if !ok {
		return "", apperrors.NotFound("post not found")
	}
	return p.Author, nil
}

type testEnv struct {
	e      *echo.Echo
	repo   *fakePostRepo
	tokens *identity.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newFakePostRepo()
	tokens := identity.NewTokenService("posts-test-secret", time.Hour)
	engine := policy.NewEngine(&repository.OwnerResolver{Posts: repo})
	h := NewHandler(repo, nil)

	e := echo.New()
	e.HTTPErrorHandler = httpserver.ErrorHandler
	RegisterRoutes(e, h, tokens, engine)

	return &testEnv{e: e, repo: repo, tokens: tokens}
}

func (env *testEnv) seedPost(t *testing.T, title, author string) *post.Post {
	t.Helper()
	p, err := env.repo.Create(context.Background(), post.CreatePostInput{
		Title:    title,
		Content:  "content",
		Category: "life",
		Author:   author,
	})
	if err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return p
}

func (env *testEnv) token(t *testing.T, userID string, role policy.Role) string {
	t.Helper()
	token, err := env.tokens.Generate(userID, role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func (env *testEnv) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestCreateSetsCallerAsAuthor(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/posts", env.token(t, "user-1", policy.RoleUser), map[string]any{
		"title":  "My first post",
		"author": "someone-else",
	})
	// Unknown fields are rejected outright, so author spoofing is a 400.
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d (body %s)", rec.Code, rec.Body.String())
	}

	rec = env.request(http.MethodPost, "/api/posts", env.token(t, "user-1", policy.RoleUser), map[string]any{
		"title": "My first post",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["author"] != "user-1" {
		t.Errorf("expected caller as author, got %v", body["author"])
	}
}

func TestCreateRequiresConnectedUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/posts", "", map[string]any{"title": "Anon post"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != msgUserInteract {
		t.Errorf("unexpected message %v", body["error"])
	}
}

func TestDeleteScopedToAuthor(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedPost(t, "Owned post", "user-1")
	path := "/api/posts/" + p.ID.String()

	t.Run("stranger denied", func(t *testing.T) {
		rec := env.request(http.MethodDelete, path, env.token(t, "user-2", policy.RoleUser), nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin override", func(t *testing.T) {
		rec := env.request(http.MethodDelete, path, env.token(t, "admin-1", policy.RoleAdmin), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
		}
	})
}

func TestLegacyOwnerlessPostUpdatable(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedPost(t, "Migrated post", "")

	rec := env.request(http.MethodPut, "/api/posts/"+p.ID.String(), env.token(t, "user-2", policy.RoleUser), map[string]any{
		"title": "Claimed title",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ownerless record, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestListByAuthorIsPublic(t *testing.T) {
	env := newTestEnv(t)
	env.seedPost(t, "Mine", "user-1")
	env.seedPost(t, "Theirs", "user-2")

	rec := env.request(http.MethodGet, "/api/posts/author/user-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var items []PostView
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Mine" {
		t.Errorf("unexpected list %v", items)
	}
}

func TestAdminSubtree(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedPost(t, "Reassignable", "")

	t.Run("read denied to users", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/api/posts/admin/all", env.token(t, "user-1", policy.RoleUser), nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != msgAdminRead {
			t.Errorf("unexpected message %v", body["error"])
		}
	})

	t.Run("update can claim an ownerless record", func(t *testing.T) {
		rec := env.request(http.MethodPut, "/api/posts/admin/"+p.ID.String(), env.token(t, "admin-1", policy.RoleAdmin), map[string]any{
			"author": "user-1",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
		}
		if p.Author != "user-1" {
			t.Errorf("author not assigned, got %q", p.Author)
		}
	})
}
