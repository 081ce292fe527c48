package comments

import (
	"net/http"
	"time"

	"blog-platform/internal/domain/comment"
	"blog-platform/internal/guard"
	"blog-platform/internal/httpserver"
	"blog-platform/internal/repository"
	apperrors "blog-platform/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	msgAdminUpdate     = "Only admins can update everything about comments."
	msgUserInteract    = "Only connected users can interact with comments."
	msgAdminRead       = "Only admins can read everything about comments."
	msgContentRequired = "A comment needs some content."
	msgNotFound        = "Didn't find the resource you were looking for."
)

type Handler struct {
	comments repository.CommentRepository
}

func NewHandler(comments repository.CommentRepository) *Handler {
	return &Handler{comments: comments}
}

type CommentView struct {
	ID             string    `json:"id"`
	Author         string    `json:"author"`
	AuthorUsername string    `json:"authorUsername"`
	Content        string    `json:"content"`
	ParentComment  *string   `json:"parentComment"`
	Upvotes        []string  `json:"upvotes"`
	PublishedAt    time.Time `json:"publishedAt"`
	ModifiedAt     time.Time `json:"modifiedAt"`
}

func toView(cm *comment.Comment) CommentView {
	return CommentView{
		ID:             cm.ID.String(),
		Author:         cm.Author,
		AuthorUsername: cm.AuthorUsername,
		Content:        cm.Content,
		ParentComment:  cm.ParentComment,
		Upvotes:        cm.Upvotes,
		PublishedAt:    cm.PublishedAt,
		ModifiedAt:     cm.ModifiedAt,
	}
}

func toViews(items []*comment.Comment) []CommentView {
	views := make([]CommentView, 0, len(items))
	for _, cm := range items {
		views = append(views, toView(cm))
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

type CreateCommentRequest struct {
	AuthorUsername string  `json:"authorUsername"`
	Content        string  `json:"content"`
	ParentComment  *string `json:"parentComment"`
}

type UpdateCommentRequest struct {
	Content *string  `json:"content"`
	Upvotes []string `json:"upvotes"`
}

// Create publishes a comment under the caller's identity.
func (h *Handler) Create(c echo.Context) error {
	var req CreateCommentRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}
	if req.Content == "" {
		return httpserver.RespondError(c, http.StatusBadRequest, msgContentRequired)
	}

	cm, err := h.comments.Create(c.Request().Context(), comment.CreateCommentInput{
		Author:         guard.Caller(c).ID,
		AuthorUsername: req.AuthorUsername,
		Content:        req.Content,
		ParentComment:  req.ParentComment,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toView(cm))
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.comments.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(items))
}

func (h *Handler) ListByAuthor(c echo.Context) error {
	items, err := h.comments.ListByAuthor(c.Request().Context(), c.Param("author"))
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

	cm, err := h.comments.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toView(cm))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateCommentRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}

	cm, err := h.comments.Update(c.Request().Context(), id, comment.UpdateCommentInput{
		Content: req.Content,
		Upvotes: req.Upvotes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toView(cm))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	cm, err := h.comments.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toView(cm))
}

func (h *Handler) AdminList(c echo.Context) error {
	items, err := h.comments.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(items))
}

// AdminUpdate accepts the same fields as the owner update. Comments carry no
// reassignable attributes, so the two differ only in who may call them.
func (h *Handler) AdminUpdate(c echo.Context) error {
	return h.Update(c)
}
