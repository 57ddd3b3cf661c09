package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	// SaveComment は親Todoの存在を確認したうえでコメントを作成する。
	SaveComment(ctx context.Context, authUser model.AuthUser, todoID int64, contents string) (*model.CommentWithUser, error)
	// GetComments は指定Todoのコメント一覧を投稿者付きで返す。
	GetComments(ctx context.Context, todoID int64) ([]model.CommentWithUser, error)
}

// CommentHandler はコメント管理のHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// saveCommentRequest はコメント作成リクエストのボディ。
type saveCommentRequest struct {
	Contents string `json:"contents"`
}

// commentResponse はコメント情報のAPIレスポンス。
type commentResponse struct {
	ID       int64        `json:"id"`
	Contents string       `json:"contents"`
	User     userResponse `json:"user"`
}

// SaveComment はコメント作成を処理する。
// POST /todos/{todoId}/comments
func (h *CommentHandler) SaveComment(w http.ResponseWriter, r *http.Request) {
	authUser, err := middleware.AuthUserFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	todoID, err := parseIDParam(r, "todoId")
	if err != nil {
		writeInvalidRequest(w, "INVALID_REQUEST", "todo id must be a positive integer")
		return
	}

	var req saveCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}

	if req.Contents == "" {
		writeInvalidRequest(w, "INVALID_CONTENTS", "contents must not be blank")
		return
	}

	created, err := h.service.SaveComment(r.Context(), authUser, todoID, req.Contents)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(created))
}

// GetComments はコメント一覧取得を処理する。コメントが無い場合は空配列を返す。
// GET /todos/{todoId}/comments
func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	todoID, err := parseIDParam(r, "todoId")
	if err != nil {
		writeInvalidRequest(w, "INVALID_REQUEST", "todo id must be a positive integer")
		return
	}

	comments, err := h.service.GetComments(r.Context(), todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]commentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, toCommentResponse(&comments[i]))
	}

	writeJSON(w, http.StatusOK, responses)
}

// toCommentResponse はmodel.CommentWithUserからAPIレスポンスに変換する。
func toCommentResponse(c *model.CommentWithUser) commentResponse {
	return commentResponse{
		ID:       c.Comment.ID,
		Contents: c.Comment.Contents,
		User:     toUserResponse(&c.User),
	}
}
