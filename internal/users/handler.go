package users

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"blog-platform/internal/domain/user"
	"blog-platform/internal/guard"
	"blog-platform/internal/httpserver"
	"blog-platform/internal/identity"
	"blog-platform/internal/policy"
	"blog-platform/internal/repository"
	apperrors "blog-platform/pkg/errors"
	"blog-platform/pkg/mailer"
	"blog-platform/pkg/password"
	"blog-platform/pkg/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	users   repository.UserRepository
	tokens  *identity.TokenService
	mail    *mailer.Service
	appName string
}

// NewHandler builds the auth service handler. The mail service is optional;
// without it no welcome email goes out.
func NewHandler(users repository.UserRepository, tokens *identity.TokenService, mail *mailer.Service, appName string) *Handler {
	return &Handler{
		users:   users,
		tokens:  tokens,
		mail:    mail,
		appName: appName,
	}
}

type RegisterRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Birthday         string `json:"birthday"`
	NewsSubscription bool   `json:"newsSubscription"`
}

type AuthResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"userRole"`
	Token    string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type InfoResponse struct {
	UserID   string  `json:"userId"`
	Role     string  `json:"userRole"`
	Birthday *string `json:"userBirthday"`
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if req.Username == "" {
		return httpserver.RespondError(c, http.StatusBadRequest, "A username is required.")
	}
	if err := validator.Email(req.Email); err != nil {
		return httpserver.RespondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Password(req.Password); err != nil {
		return httpserver.RespondError(c, http.StatusBadRequest, err.Error())
	}

	var birthday *time.Time
	if req.Birthday != "" {
		parsed, err := time.Parse(birthdayLayout, req.Birthday)
		if err != nil {
			return httpserver.RespondError(c, http.StatusBadRequest, msgInvalidBirthday)
		}
		birthday = &parsed
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		return httpserver.RespondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
	}

	u, err := h.users.Create(c.Request().Context(), user.CreateUserInput{
		Username:         req.Username,
		Email:            req.Email,
		PasswordHash:     passwordHash,
		Birthday:         birthday,
		NewsSubscription: req.NewsSubscription,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return httpserver.RespondError(c, http.StatusConflict, msgEmailAlreadyExists)
		}
		return err
	}

	role, err := policy.ParseRole(u.Role)
	if err != nil {
		role = policy.RoleUser
	}

	token, err := h.tokens.Generate(u.ID.String(), role)
	if err != nil {
		return httpserver.RespondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	h.sendWelcomeEmail(c, u)

	return c.JSON(http.StatusCreated, AuthResponse{
		UserID:   u.ID.String(),
		Username: u.Username,
		Role:     u.Role,
		Token:    token,
	})
}

func (h *Handler) sendWelcomeEmail(c echo.Context, u *user.User) {
	if h.mail == nil {
		return
	}

	logger := c.Logger()
	tmpl, err := mailer.WelcomeTemplate()
	if err != nil {
		logger.Errorf("failed to build welcome template: %v", err)
		return
	}

	// Fire and forget: signup never blocks on the mail provider.
	go func(email, username string) {
		_, err := h.mail.SendTemplate(tmpl, mailer.WelcomeContext{
			AppName:  h.appName,
			Username: username,
		}, &mailer.EmailData{To: []string{email}})
		if err != nil {
			logger.Errorf("failed to send welcome email to %s: %v", email, err)
		}
	}(u.Email, u.Username)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := httpserver.BindStrictJSON(c, &req); err != nil {
		return err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	u, err := h.users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		// Burn a bcrypt round anyway so the miss costs as much as a wrong
		// password and response timing stays flat.
		password.Verify(req.Password, dummyBcryptHash)
		if errors.Is(err, apperrors.ErrNotFound) {
			return httpserver.RespondError(c, http.StatusNotFound, msgUserNotFound)
		}
		return err
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return httpserver.RespondError(c, http.StatusUnauthorized, msgWrongPassword)
	}

	role, err := policy.ParseRole(u.Role)
	if err != nil {
		role = policy.RoleUser
	}

	token, err := h.tokens.Generate(u.ID.String(), role)
	if err != nil {
		return httpserver.RespondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	if _, err := h.users.TouchLastConnected(c.Request().Context(), u.ID); err != nil {
		c.Logger().Warnf("failed to update last connected for %s: %v", u.ID, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		UserID:   u.ID.String(),
		Username: u.Username,
		Role:     u.Role,
		Token:    token,
	})
}

// Info is the role introspection endpoint the gateway's bouncer calls. It
// answers from the verified credential and the user record.
func (h *Handler) Info(c echo.Context) error {
	caller := guard.Caller(c)

	id, err := uuid.Parse(caller.ID)
	if err != nil {
		return apperrors.Unauthorized("invalid caller id")
	}

	u, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// The token outlived its account.
			return apperrors.Unauthorized("user no longer exists")
		}
		return err
	}

	var birthday *string
	if u.Birthday != nil {
		b := u.Birthday.Format(birthdayLayout)
		birthday = &b
	}

	return c.JSON(http.StatusOK, InfoResponse{
		UserID:   u.ID.String(),
		Role:     u.Role,
		Birthday: birthday,
	})
}
