package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"unicode"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetUser は指定IDのユーザーを返す。
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	// ChangePassword は本人のパスワードを検証付きで変更する。
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// changePasswordRequest はパスワード変更リクエストのボディ。
type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// GetUser はユーザー情報取得を処理する。
// GET /users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		writeInvalidRequest(w, "INVALID_REQUEST", "user id must be a positive integer")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ChangePassword は本人のパスワード変更を処理する。
// 対象ユーザーは必ず認証済みプリンシパルから決定し、ボディやパスからは受け取らない。
// PUT /users
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	authUser, err := middleware.AuthUserFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}

	if msg, ok := validateNewPassword(req.NewPassword); !ok {
		writeInvalidRequest(w, "INVALID_PASSWORD", msg)
		return
	}

	if err := h.service.ChangePassword(r.Context(), authUser.ID, req.OldPassword, req.NewPassword); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// validateNewPassword は新パスワードの複雑性要件を検証する。
// 8文字以上で、数字と大文字をそれぞれ1文字以上含むこと。
func validateNewPassword(password string) (string, bool) {
	if len(password) < 8 {
		return "new password must be at least 8 characters", false
	}
	var hasDigit, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	if !hasDigit {
		return "new password must contain a digit", false
	}
	if !hasUpper {
		return "new password must contain an uppercase letter", false
	}
	return "", true
}
