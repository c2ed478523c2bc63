package handler

import (
	"errors"
	"net/http"

	"app/internal/middleware"
	auth "app/internal/usecase/auth_usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc *auth.AuthService
}

// DIコンストラクタ
func NewAuthHandler(svc *auth.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// ----- リクエストボディ -----

// /auth/register のリクエストボディ。
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ----- レスポンス -----

type errorResponse struct {
	Error string `json:"error"`
}

type lockedResponse struct {
	Error            string `json:"error"`
	RemainingMinutes int    `json:"remaining_minutes"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	User         auth.UserDTO `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
}

type verifyResponse struct {
	Valid bool       `json:"valid"`
	User  verifyUser `json:"user"`
}

type verifyUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RegisterはPOST /auth/registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	out, err := h.svc.Register(c.Request().Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	}, requestMeta(c))
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, authResponse{
		User:         out.User,
		AccessToken:  out.Token.AccessToken,
		RefreshToken: out.Token.RefreshToken,
		ExpiresIn:    out.Token.ExpiresIn,
	})
}

// LoginはPOST /auth/login のハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	out, err := h.svc.Login(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, requestMeta(c))
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, authResponse{
		User:         out.User,
		AccessToken:  out.Token.AccessToken,
		RefreshToken: out.Token.RefreshToken,
		ExpiresIn:    out.Token.ExpiresIn,
	})
}

// RefreshはPOST /auth/refresh のハンドラ。
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	pair, err := h.svc.Refresh(c.Request().Context(), req.RefreshToken, requestMeta(c))
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, pair)
}

// LogoutはPOST /auth/logout のハンドラ（要bearer）。
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}

	if err := h.svc.Logout(c.Request().Context(), userID, requestMeta(c)); err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// RequestPasswordResetはPOST /auth/password-reset/request のハンドラ。
// emailが存在してもしなくても応答は同じ（列挙耐性）。
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req resetRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	err := h.svc.RequestPasswordReset(c.Request().Context(), req.Email, requestMeta(c))
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{
		Message: "if the email exists, a password reset link has been sent",
	})
}

// ConfirmPasswordResetはPOST /auth/password-reset/confirm のハンドラ。
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req resetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	err := h.svc.ConfirmPasswordReset(c.Request().Context(), auth.ConfirmPasswordResetInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	}, requestMeta(c))
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// VerifyはGET /auth/verify のハンドラ（要bearer）。
// ミドルウェアを通過した時点でトークンは有効。
func (h *AuthHandler) Verify(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}

	email, _ := c.Get(middleware.CtxUserEmailKey).(string)
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)

	return c.JSON(http.StatusOK, verifyResponse{
		Valid: true,
		User:  verifyUser{ID: userID, Email: email, Role: role},
	})
}

// MeはGET /auth/me のハンドラ（要bearer）。
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}

	user, err := h.svc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

// usecaseのエラーをHTTPステータスへ変換する。
func writeAuthError(c echo.Context, err error) error {
	// ロック中は423で残り時間を返す（意図的に漏らす情報）
	if locked, ok := auth.AsAccountLocked(err); ok {
		return c.JSON(http.StatusLocked, lockedResponse{
			Error:            "account locked",
			RemainingMinutes: locked.RemainingMinutes(),
		})
	}

	switch {
	case errors.Is(err, validator.ErrInvalidEmail),
		errors.Is(err, validator.ErrPasswordTooShort),
		errors.Is(err, validator.ErrWeakPassword):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return c.JSON(http.StatusConflict, errorResponse{Error: "email already registered"})

	case errors.Is(err, auth.ErrInvalidCredentials):
		//emailとpasswordのどちらが違うかは返さない
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})

	case errors.Is(err, auth.ErrRefreshTokenExpired):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "refresh token expired"})

	case errors.Is(err, auth.ErrInvalidRefreshToken):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid refresh token"})

	case errors.Is(err, auth.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})

	case errors.Is(err, auth.ErrResetTokenExpired):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "reset token expired"})

	case errors.Is(err, auth.ErrResetTokenInvalid):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid or already used reset token"})

	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// 監査ログに残すリクエスト情報を組み立てる。
func requestMeta(c echo.Context) auth.RequestMeta {
	return auth.RequestMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
