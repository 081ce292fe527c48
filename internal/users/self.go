package users

import (
	"errors"
	"net/http"
	"time"

	"blog-platform/internal/domain/user"
	"blog-platform/internal/guard"
	"blog-platform/internal/httpserver"
	apperrors "blog-platform/pkg/errors"
	"blog-platform/pkg/password"
	"blog-platform/pkg/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Self-scoped routes: the ownership guard has already established that the
// caller is the target user or an admin before any handler below runs.

type UpdateUserRequest struct {
	Username         *string `json:"username"`
	Email            *string `json:"email"`
	Password         *string `json:"password"`
	Birthday         *string `json:"birthday"`
	NewsSubscription *bool   `json:"newsSubscription"`
	Strikes          *int    `json:"strikes"`
}

type ListEntryRequest struct {
	ItemID string `json:"itemId"`
}

type UserView struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Role             string    `json:"userRole"`
	Birthday         *string   `json:"birthday"`
	NewsSubscription bool      `json:"newsSubscription"`
	LastConnected    *string   `json:"lastConnected"`
	SavedArticles    []string  `json:"savedArticles"`
	UpvotedArticles  []string  `json:"upvotedArticles"`
	ArticlesHistory  []string  `json:"articlesHistory"`
	SavedPosts       []string  `json:"savedPosts"`
	UpvotedPosts     []string  `json:"upvotedPosts"`
	PostsHistory     []string  `json:"postsHistory"`
	Strikes          int       `json:"strikes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toUserView(u *user.User) UserView {
	view := UserView{
		ID:               u.ID.String(),
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role,
		NewsSubscription: u.NewsSubscription,
		SavedArticles:    u.SavedArticles,
		UpvotedArticles:  u.UpvotedArticles,
		ArticlesHistory:  u.ArticlesHistory,
		SavedPosts:       u.SavedPosts,
		UpvotedPosts:     u.UpvotedPosts,
		PostsHistory:     u.PostsHistory,
		Strikes:          u.Strikes,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if u.Birthday != nil {
		b := u.Birthday.Format(birthdayLayout)
		view.Birthday = &b
	}
	if u.LastConnected != nil {
		l := u.LastConnected.Format(time.RFC3339)
		view.LastConnected = &l
	}
	return view
}

func targetUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NotFound(msgUserNotFound)
	}
	return id, nil
}

func (h *Handler) Update(c echo.Context) error {
	id, err := targetUserID(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}

	input := user.UpdateUserInput{
		Username:         req.Username,
		NewsSubscription: req.NewsSubscription,
	}

	if req.Email != nil {
		if err := validator.Email(*req.Email); err != nil {
			return httpserver.RespondError(c, http.StatusBadRequest, err.Error())
		}
		input.Email = req.Email
	}

	if req.Password != nil {
		if err := validator.Password(*req.Password); err != nil {
			return httpserver.RespondError(c, http.StatusBadRequest, err.Error())
		}
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return httpserver.RespondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
		}
		input.PasswordHash = &hash
	}

	if req.Birthday != nil {
		parsed, err := time.Parse(birthdayLayout, *req.Birthday)
		if err != nil {
			return httpserver.RespondError(c, http.StatusBadRequest, msgInvalidBirthday)
		}
		input.Birthday = &parsed
	}

	if req.Strikes != nil {
		// Strikes are moderation state, off limits to the account itself.
		if !guard.Caller(c).IsAdmin() {
			return httpserver.RespondError(c, http.StatusForbidden, msgAdminOnlyStrikes)
		}
		input.Strikes = req.Strikes
	}

	u, err := h.users.Update(c.Request().Context(), id, input)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return httpserver.RespondError(c, http.StatusConflict, msgEmailAlreadyExists)
		}
		return err
	}

	return c.JSON(http.StatusOK, toUserView(u))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := targetUserID(c)
	if err != nil {
		return err
	}

	if _, err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return httpserver.RespondMessage(c, http.StatusOK, msgUserDeleted)
}

// toggleList and appendList back the bookmark, upvote and history routes.
// The column name is fixed per route, never taken from the request.

func (h *Handler) toggleList(c echo.Context, list string) error {
	id, err := targetUserID(c)
	if err != nil {
		return err
	}

	var req ListEntryRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}
	if req.ItemID == "" {
		return httpserver.RespondError(c, http.StatusBadRequest, msgItemIDRequired)
	}

	entries, err := h.users.ToggleListEntry(c.Request().Context(), id, list, req.ItemID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string][]string{list: entries})
}

func (h *Handler) appendList(c echo.Context, list string) error {
	id, err := targetUserID(c)
	if err != nil {
		return err
	}

	var req ListEntryRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}
	if req.ItemID == "" {
		return httpserver.RespondError(c, http.StatusBadRequest, msgItemIDRequired)
	}

	entries, err := h.users.AppendListEntry(c.Request().Context(), id, list, req.ItemID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string][]string{list: entries})
}

func (h *Handler) ToggleSavedArticle(c echo.Context) error {
	return h.toggleList(c, "saved_articles")
}

func (h *Handler) ToggleUpvotedArticle(c echo.Context) error {
	return h.toggleList(c, "upvoted_articles")
}

func (h *Handler) AppendArticleHistory(c echo.Context) error {
	return h.appendList(c, "articles_history")
}

func (h *Handler) ToggleSavedPost(c echo.Context) error {
	return h.toggleList(c, "saved_posts")
}

func (h *Handler) ToggleUpvotedPost(c echo.Context) error {
	return h.toggleList(c, "upvoted_posts")
}

func (h *Handler) AppendPostHistory(c echo.Context) error {
	return h.appendList(c, "posts_history")
}
