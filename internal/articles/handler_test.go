package articles

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog-platform/internal/domain/article"
	"blog-platform/internal/httpserver"
	"blog-platform/internal/identity"
	"blog-platform/internal/policy"
	"blog-platform/internal/repository"
	apperrors "blog-platform/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type fakeArticleRepo struct {
	byID map[uuid.UUID]*article.Article
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{byID: make(map[uuid.UUID]*article.Article)}
}

func (r *fakeArticleRepo) Create(ctx context.Context, input article.CreateArticleInput) (*article.Article, error) {
	for _, a := range r.byID {
		if a.Title == input.Title {
			return nil, apperrors.Conflict("article with this title already exists")
		}
	}
	a := &article.Article{
		ID:          uuid.New(),
		Title:       input.Title,
		Intro:       input.Intro,
		Cover:       input.Cover,
		Content:     input.Content,
		Audio:       input.Audio,
		Keywords:    input.Keywords,
		Category:    input.Category,
		Author:      input.Author,
		ReadingTime: input.ReadingTime,
		PublishedAt: time.Now(),
		ModifiedAt:  time.Now(),
	}
	r.byID[a.ID] = a
	return a, nil
}

func (r *fakeArticleRepo) GetByID(ctx context.Context, id uuid.UUID) (*article.Article, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("article not found")
	}
	return a, nil
}

func (r *fakeArticleRepo) List(ctx context.Context) ([]*article.Article, error) {
	items := make([]*article.Article, 0, len(r.byID))
	for _, a := range r.byID {
		items = append(items, a)
	}
	return items, nil
}

func (r *fakeArticleRepo) ListByKeyword(ctx context.Context, keyword string) ([]*article.Article, error) {
	var items []*article.Article
	for _, a := range r.byID {
		for _, k := range a.Keywords {
			if k == keyword {
				items = append(items, a)
				break
			}
		}
	}
	return items, nil
}

func (r *fakeArticleRepo) ListByCategory(ctx context.Context, category string) ([]*article.Article, error) {
	var items []*article.Article
	for _, a := range r.byID {
		if a.Category == category {
			items = append(items, a)
		}
	}
	return items, nil
}

func (r *fakeArticleRepo) Update(ctx context.Context, id uuid.UUID, input article.UpdateArticleInput) (*article.Article, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("article not found")
	}
	if input.Title != nil {
		a.Title = *input.Title
	}
	if input.Intro != nil {
		a.Intro = *input.Intro
	}
	if input.Content != nil {
		a.Content = *input.Content
	}
	if input.Author != nil {
		a.Author = *input.Author
	}
	a.ModifiedAt = time.Now()
	return a, nil
}

func (r *fakeArticleRepo) Delete(ctx context.Context, id uuid.UUID) (*article.Article, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("article not found")
	}
	delete(r.byID, id)
	return a, nil
}

func (r *fakeArticleRepo) Owner(ctx context.Context, id uuid.UUID) (string, error) {
	a, ok := r.byID[id]
	if !ok {
		return "", apperrors.NotFound("article not found")
	}
	return a.Author, nil
}

type testEnv struct {
	e      *echo.Echo
	repo   *fakeArticleRepo
	tokens *identity.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newFakeArticleRepo()
	tokens := identity.NewTokenService("articles-test-secret", time.Hour)
	engine := policy.NewEngine(&repository.OwnerResolver{Articles: repo})
	h := NewHandler(repo, nil)

	e := echo.New()
	e.HTTPErrorHandler = httpserver.ErrorHandler
	RegisterRoutes(e, h, tokens, engine)

	return &testEnv{e: e, repo: repo, tokens: tokens}
}

func (env *testEnv) seedArticle(t *testing.T, title, author string) *article.Article {
	t.Helper()
	a, err := env.repo.Create(context.Background(), article.CreateArticleInput{
		Title:    title,
		Intro:    "intro",
		Content:  "content",
		Category: "go",
		Keywords: []string{"testing"},
		Author:   author,
	})
	if err != nil {
		t.Fatalf("failed to seed article: %v", err)
	}
	return a
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

func TestListIsPublic(t *testing.T) {
	env := newTestEnv(t)
	env.seedArticle(t, "Generics in practice", "admin-1")

	rec := env.request(http.MethodGet, "/api/articles", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}

	var items []ArticleView
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Generics in practice" {
		t.Errorf("unexpected list %v", items)
	}
}

func TestCreateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	payload := map[string]any{"title": "New article"}

	t.Run("guest denied", func(t *testing.T) {
		rec := env.request(http.MethodPost, "/api/articles", "", payload)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != msgCreateDelete {
			t.Errorf("unexpected message %v", body["error"])
		}
	})

	t.Run("connected user denied", func(t *testing.T) {
		rec := env.request(http.MethodPost, "/api/articles", env.token(t, "user-1", policy.RoleUser), payload)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin allowed", func(t *testing.T) {
		rec := env.request(http.MethodPost, "/api/articles", env.token(t, "admin-1", policy.RoleAdmin), payload)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (body %s)", rec.Code, rec.Body.String())
		}
		if body := decodeBody(t, rec); body["author"] != "admin-1" {
			t.Errorf("expected caller as author, got %v", body["author"])
		}
	})
}

func TestUpdateOwnership(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedArticle(t, "Owned article", "admin-1")
	path := "/api/articles/" + a.ID.String()
	payload := map[string]any{"title": "Revised title"}

	t.Run("guest gets 401", func(t *testing.T) {
		rec := env.request(http.MethodPut, path, "", payload)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("stranger denied", func(t *testing.T) {
		rec := env.request(http.MethodPut, path, env.token(t, "user-2", policy.RoleUser), payload)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != msgUserInteract {
			t.Errorf("unexpected message %v", body["error"])
		}
	})

	t.Run("owner allowed", func(t *testing.T) {
		rec := env.request(http.MethodPut, path, env.token(t, "admin-1", policy.RoleAdmin), payload)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
		}
		if body := decodeBody(t, rec); body["title"] != "Revised title" {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("missing article is 404", func(t *testing.T) {
		rec := env.request(http.MethodPut, "/api/articles/"+uuid.NewString(), env.token(t, "user-2", policy.RoleUser), payload)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestDeleteRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedArticle(t, "Doomed article", "user-1")
	path := "/api/articles/" + a.ID.String()

	rec := env.request(http.MethodDelete, path, env.token(t, "user-1", policy.RoleUser), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for the author, got %d", rec.Code)
	}

	rec = env.request(http.MethodDelete, path, env.token(t, "admin-1", policy.RoleAdmin), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if len(env.repo.byID) != 0 {
		t.Errorf("article not deleted")
	}
}

func TestAdminSubtree(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedArticle(t, "Reassignable", "user-1")

	t.Run("read denied to users", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/api/articles/admin/all", env.token(t, "user-1", policy.RoleUser), nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != msgAdminRead {
			t.Errorf("unexpected message %v", body["error"])
		}
	})

	t.Run("read allowed to admins", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/api/articles/admin/all", env.token(t, "admin-1", policy.RoleAdmin), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("update can reassign the author", func(t *testing.T) {
		rec := env.request(http.MethodPut, "/api/articles/admin/"+a.ID.String(), env.token(t, "admin-1", policy.RoleAdmin), map[string]any{
			"author": "user-2",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
		}
		if a.Author != "user-2" {
			t.Errorf("author not reassigned, got %q", a.Author)
		}
	})

	t.Run("update denied to owner", func(t *testing.T) {
		rec := env.request(http.MethodPut, "/api/articles/admin/"+a.ID.String(), env.token(t, "user-2", policy.RoleUser), map[string]any{
			"title": "Sneaky",
		})
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != msgAdminUpdate {
			t.Errorf("unexpected message %v", body["error"])
		}
	})
}

func TestMediaRoutesDisabledWithoutStore(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedArticle(t, "With media", "user-1")

	rec := env.request(http.MethodPost, "/api/articles/"+a.ID.String()+"/media", env.token(t, "user-1", policy.RoleUser), map[string]any{
		"fileName": "cover.png",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (body %s)", rec.Code, rec.Body.String())
	}
}
