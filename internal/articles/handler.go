package articles

import (
	"net/http"
	"time"

	"blog-platform/internal/domain/article"
	"blog-platform/internal/guard"
	"blog-platform/internal/httpserver"
	"blog-platform/internal/media"
	"blog-platform/internal/repository"
	apperrors "blog-platform/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	msgCreateDelete  = "Only admins can create or delete articles."
	msgAdminUpdate   = "Only admins can update everything about articles."
	msgUserInteract  = "Only connected users can interact with articles."
	msgAdminRead     = "Only admins can read everything about articles."
	msgTitleRequired = "A title is required."
	msgNotFound      = "Didn't find the resource you were looking for."
	msgFileRequired  = "A file name is required."
)

type Handler struct {
	articles repository.ArticleRepository
	media    *media.Store
}

// NewHandler builds the articles handler. The media store is optional; when
// absent the media routes respond 404.
func NewHandler(articles repository.ArticleRepository, mediaStore *media.Store) *Handler {
	return &Handler{articles: articles, media: mediaStore}
}

type ArticleView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Intro       string    `json:"intro"`
	Cover       string    `json:"cover"`
	Content     string    `json:"content"`
	Audio       string    `json:"audio"`
	Keywords    []string  `json:"keywords"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	ReadingTime int       `json:"readingTime"`
	Upvotes     []string  `json:"upvotes"`
	CommentIDs  []string  `json:"commentIds"`
	SavedBy     []string  `json:"savedBy"`
	Reads       []string  `json:"reads"`
	PublishedAt time.Time `json:"publishedAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

func toView(a *article.Article) ArticleView {
	return ArticleView{
		ID:          a.ID.String(),
		Title:       a.Title,
		Intro:       a.Intro,
		Cover:       a.Cover,
		Content:     a.Content,
		Audio:       a.Audio,
		Keywords:    a.Keywords,
		Category:    a.Category,
		Author:      a.Author,
		ReadingTime: a.ReadingTime,
		Upvotes:     a.Upvotes,
		CommentIDs:  a.CommentIDs,
		SavedBy:     a.SavedBy,
		Reads:       a.Reads,
		PublishedAt: a.PublishedAt,
		ModifiedAt:  a.ModifiedAt,
	}
}

func toViews(items []*article.Article) []ArticleView {
	views := make([]ArticleView, 0, len(items))
	for _, a := range items {
		views = append(views, toView(a))
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

type CreateArticleRequest struct {
	Title       string   `json:"title"`
	Intro       string   `json:"intro"`
	Cover       string   `json:"cover"`
	Content     string   `json:"content"`
	Audio       string   `json:"audio"`
	Keywords    []string `json:"keywords"`
	Category    string   `json:"category"`
	ReadingTime int      `json:"readingTime"`
}

type UpdateArticleRequest struct {
	Title       *string  `json:"title"`
	Intro       *string  `json:"intro"`
	Cover       *string  `json:"cover"`
	Content     *string  `json:"content"`
	Audio       *string  `json:"audio"`
	Keywords    []string `json:"keywords"`
	Category    *string  `json:"category"`
	ReadingTime *int     `json:"readingTime"`
	Upvotes     []string `json:"upvotes"`
	CommentIDs  []string `json:"commentIds"`
	SavedBy     []string `json:"savedBy"`
	Reads       []string `json:"reads"`
}

// AdminUpdateArticleRequest additionally allows reassigning the author.
type AdminUpdateArticleRequest struct {
	UpdateArticleRequest
	Author *string `json:"author"`
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateArticleRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}
	if req.Title == "" {
		return httpserver.RespondError(c, http.StatusBadRequest, msgTitleRequired)
	}

	a, err := h.articles.Create(c.Request().Context(), article.CreateArticleInput{
		Title:       req.Title,
		Intro:       req.Intro,
		Cover:       req.Cover,
		Content:     req.Content,
		Audio:       req.Audio,
		Keywords:    req.Keywords,
		Category:    req.Category,
		Author:      guard.Caller(c).ID,
		ReadingTime: req.ReadingTime,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toView(a))
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.articles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(items))
}

func (h *Handler) ListByKeyword(c echo.Context) error {
	items, err := h.articles.ListByKeyword(c.Request().Context(), c.Param("keyword"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(items))
}

func (h *Handler) ListByCategory(c echo.Context) error {
	items, err := h.articles.ListByCategory(c.Request().Context(), c.Param("category"))
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

	a, err := h.articles.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toView(a))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateArticleRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}

	a, err := h.articles.Update(c.Request().Context(), id, article.UpdateArticleInput{
		Title:       req.Title,
		Intro:       req.Intro,
		Cover:       req.Cover,
		Content:     req.Content,
		Audio:       req.Audio,
		Keywords:    req.Keywords,
		Category:    req.Category,
		ReadingTime: req.ReadingTime,
		Upvotes:     req.Upvotes,
		CommentIDs:  req.CommentIDs,
		SavedBy:     req.SavedBy,
		Reads:       req.Reads,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toView(a))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	a, err := h.articles.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toView(a))
}

// AdminList returns every article, including fields a public listing would
// aggregate away. Kept as a distinct route so the gate is explicit.
func (h *Handler) AdminList(c echo.Context) error {
	items, err := h.articles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(items))
}

// AdminUpdate is the full-powers update, including author reassignment.
func (h *Handler) AdminUpdate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req AdminUpdateArticleRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}

	a, err := h.articles.Update(c.Request().Context(), id, article.UpdateArticleInput{
		Title:       req.Title,
		Intro:       req.Intro,
		Cover:       req.Cover,
		Content:     req.Content,
		Audio:       req.Audio,
		Keywords:    req.Keywords,
		Category:    req.Category,
		ReadingTime: req.ReadingTime,
		Upvotes:     req.Upvotes,
		CommentIDs:  req.CommentIDs,
		SavedBy:     req.SavedBy,
		Reads:       req.Reads,
		Author:      req.Author,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toView(a))
}

type MediaUploadRequest struct {
	FileName string `json:"fileName"`
}

// MediaUploadURL hands the client a presigned PUT for an article asset
// (cover image, audio narration). The article must exist first.
func (h *Handler) MediaUploadURL(c echo.Context) error {
	if h.media == nil {
		return apperrors.NotFound(msgNotFound)
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.articles.GetByID(c.Request().Context(), id); err != nil {
		return err
	}

	var req MediaUploadRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}
	if req.FileName == "" {
		return httpserver.RespondError(c, http.StatusBadRequest, msgFileRequired)
	}

	key, err := media.BuildObjectKey("articles", id.String(), req.FileName)
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
// The file segment is the last component of the object key handed out at
// upload time.
func (h *Handler) MediaDownloadURL(c echo.Context) error {
	if h.media == nil {
		return apperrors.NotFound(msgNotFound)
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	key, err := media.BuildStoredObjectKey("articles", id.String(), c.Param("file"))
	if err != nil {
		return err
	}

	url, err := h.media.PresignDownload(key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
