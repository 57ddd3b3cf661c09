package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

// AdminUserServiceInterface は管理者ハンドラーが必要とするユーザー操作のインターフェース。
type AdminUserServiceInterface interface {
	// ChangeUserRole は指定ユーザーのロールを変更する。
	ChangeUserRole(ctx context.Context, userID int64, role string) error
}

// AdminCommentServiceInterface は管理者ハンドラーが必要とするコメント操作のインターフェース。
type AdminCommentServiceInterface interface {
	// DeleteComment は指定コメントを無条件に削除する。存在しないIDでも成功を返す。
	DeleteComment(ctx context.Context, commentID int64) error
}

// AdminHandler は管理者APIのHTTPハンドラー。
// ルーティング層でADMIN権限チェックと監査ログを通過済みであることを前提とする。
type AdminHandler struct {
	users    AdminUserServiceInterface
	comments AdminCommentServiceInterface
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(users AdminUserServiceInterface, comments AdminCommentServiceInterface) *AdminHandler {
	return &AdminHandler{
		users:    users,
		comments: comments,
	}
}

// changeUserRoleRequest はロール変更リクエストのボディ。
type changeUserRoleRequest struct {
	Role string `json:"role"`
}

// ChangeUserRole はユーザーのロール変更を処理する。
// PATCH /admin/users/{userId}
func (h *AdminHandler) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		writeInvalidRequest(w, "INVALID_REQUEST", "user id must be a positive integer")
		return
	}

	var req changeUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}

	if err := h.users.ChangeUserRole(r.Context(), userID, req.Role); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteComment はコメントの管理者削除を処理する。
// DELETE /admin/comments/{commentId}
func (h *AdminHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := parseIDParam(r, "commentId")
	if err != nil {
		writeInvalidRequest(w, "INVALID_REQUEST", "comment id must be a positive integer")
		return
	}

	if err := h.comments.DeleteComment(r.Context(), commentID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
