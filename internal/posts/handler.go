package posts

import (
	"net/http"
	"time"

	"blog-platform/internal/domain/post"
	"blog-platform/internal/guard"
	"blog-platform/internal/httpserver"
	"blog-platform/internal/media"
	"blog-platform/internal/repository"
	apperrors "blog-platform/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	msgAdminUpdate   = "Only admins can update everything about posts."
	msgUserInteract  = "Only connected users can interact with posts."
	msgAdminRead     = "Only admins can read everything about posts."
	msgTitleRequired = "A title is required."
	msgNotFound      = "Didn't find the resource you were looking for."
	msgFileRequired  = "A file name is required."
)

type Handler struct {
	posts repository.PostRepository
	media *media.Store
}

func NewHandler(posts repository.PostRepository, mediaStore *media.Store) *Handler {
	return &Handler{posts: posts, media: mediaStore}
}

type PostView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Cover       string    `json:"cover"`
	Content     string    `json:"content"`
	Keywords    []string  `json:"keywords"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	Upvotes     []string  `json:"upvotes"`
	PublishedAt time.Time `json:"publishedAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

func toView(p *post.Post) PostView {
	return PostView{
		ID:          p.ID.String(),
		Title:       p.Title,
		Cover:       p.Cover,
		Content:     p.Content,
		Keywords:    p.Keywords,
		Category:    p.Category,
		Author:      p.Author,
		Upvotes:     p.Upvotes,
		PublishedAt: p.PublishedAt,
		ModifiedAt:  p.ModifiedAt,
	}
}

func toViews(items []*post.Post) []PostView {
	views := make([]PostView, 0, len(items))
	for _, p := range items {
		views = append(views, toView(p))
	}
	return views
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NotFound(msgNotFound)
	}
	return id, nil
}

type CreatePostRequest struct {
	Title    string   `json:"title"`
	Cover    string   `json:"cover"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`
}

type UpdatePostRequest struct {
	Title    *string  `json:"title"`
	Cover    *string  `json:"cover"`
	Content  *string  `json:"content"`
	Keywords []string `json:"keywords"`
	Category *string  `json:"category"`
	Upvotes  []string `json:"upvotes"`
}

// AdminUpdatePostRequest additionally allows reassigning the author, which
// is how legacy ownerless records get claimed.
type AdminUpdatePostRequest struct {
	UpdatePostRequest
	Author *string `json:"author"`
}

// Create publishes a post under the caller's identity. The author is never
// taken from the request body.
func (h *Handler) Create(c echo.Context) error {
	var req CreatePostRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}
	if req.Title == "" {
		return httpserver.RespondError(c, http.StatusBadRequest, msgTitleRequired)
	}

	p, err := h.posts.Create(c.Request().Context(), post.CreatePostInput{
		Title:    req.Title,
		Cover:    req.Cover,
		Content:  req.Content,
		Keywords: req.Keywords,
		Category: req.Category,
		Author:   guard.Caller(c).ID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toView(p))
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.posts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(items))
}

func (h *Handler) ListByAuthor(c echo.Context) error {
	items, err := h.posts.ListByAuthor(c.Request().Context(), c.Param("author"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(items))
}

func (h *Handler) ListByKeyword(c echo.Context) error {
	items, err := h.posts.ListByKeyword(c.Request().Context(), c.Param("keyword"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(items))
}

func (h *Handler) ListByCategory(c echo.Context) error {
	items, err := h.posts.ListByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(items))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p, err := h.posts.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toView(p))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdatePostRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}

	p, err := h.posts.Update(c.Request().Context(), id, post.UpdatePostInput{
		Title:    req.Title,
		Cover:    req.Cover,
		Content:  req.Content,
		Keywords: req.Keywords,
		Category: req.Category,
		Upvotes:  req.Upvotes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toView(p))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p, err := h.posts.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toView(p))
}

func (h *Handler) AdminList(c echo.Context) error {
	items, err := h.posts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(items))
}

func (h *Handler) AdminUpdate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req AdminUpdatePostRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}

	p, err := h.posts.Update(c.Request().Context(), id, post.UpdatePostInput{
		Title:    req.Title,
		Cover:    req.Cover,
		Content:  req.Content,
		Keywords: req.Keywords,
		Category: req.Category,
		Upvotes:  req.Upvotes,
		Author:   req.Author,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toView(p))
}

type MediaUploadRequest struct {
	FileName string `json:"fileName"`
}

// MediaUploadURL hands the client a presigned PUT for a post's cover image.
func (h *Handler) MediaUploadURL(c echo.Context) error {
	if h.media == nil {
		return apperrors.NotFound(msgNotFound)
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.posts.GetByID(c.Request().Context(), id); err != nil {
		return err
	}

	var req MediaUploadRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}
	if req.FileName == "" {
		return httpserver.RespondError(c, http.StatusBadRequest, msgFileRequired)
	}

	key, err := media.BuildObjectKey("posts", id.String(), req.FileName)
	if err != nil {
		return err
	}

	target, err := h.media.PresignUpload(key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, target)
}

// MediaDownloadURL resolves a previously uploaded object to a presigned GET.
func (h *Handler) MediaDownloadURL(c echo.Context) error {
	if h.media == nil {
		return apperrors.NotFound(msgNotFound)
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	key, err := media.BuildStoredObjectKey("posts", id.String(), c.Param("file"))
	if err != nil {
		return err
	}

	url, err := h.media.PresignDownload(key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
