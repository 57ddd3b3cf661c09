package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/todoman/internal/model"
)

// --- モック ---

type mockCommentService struct {
	saveCommentFn func(ctx context.Context, authUser model.AuthUser, todoID int64, contents string) (*model.CommentWithUser, error)
	getCommentsFn func(ctx context.Context, todoID int64) ([]model.CommentWithUser, error)
}

func (m *mockCommentService) SaveComment(ctx context.Context, authUser model.AuthUser, todoID int64, contents string) (*model.CommentWithUser, error) {
	return m.saveCommentFn(ctx, authUser, todoID, contents)
}
func (m *mockCommentService) GetComments(ctx context.Context, todoID int64) ([]model.CommentWithUser, error) {
	return m.getCommentsFn(ctx, todoID)
}

// --- SaveComment ---

// TestCommentHandler_SaveComment_Success は正常系のコメント作成を検証する。
func TestCommentHandler_SaveComment_Success(t *testing.T) {
	svc := &mockCommentService{
		saveCommentFn: func(ctx context.Context, authUser model.AuthUser, todoID int64, contents string) (*model.CommentWithUser, error) {
			return &model.CommentWithUser{
				Comment: model.Comment{ID: 100, Contents: contents, UserID: authUser.ID, TodoID: todoID},
				User:    model.User{ID: authUser.ID, Email: authUser.Email},
			}, nil
		},
	}
	h := NewCommentHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/todos/1/comments", strings.NewReader(`{"contents":"nice"}`))
	req = withAuthUser(req, model.AuthUser{ID: 2, Email: "commenter@example.com"})
	req = withURLParams(req, map[string]string{"todoId": "1"})
	rec := httptest.NewRecorder()

	h.SaveComment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body commentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.ID != 100 || body.Contents != "nice" || body.User.ID != 2 {
		t.Errorf("unexpected response: %+v", body)
	}
}

// TestCommentHandler_SaveComment_TodoNotFound は親Todo不在で400が返ることを検証する。
// マネージャー系のTodo不在(404)とは異なり、コメント作成ではリクエスト不正として扱う。
func TestCommentHandler_SaveComment_TodoNotFound(t *testing.T) {
	svc := &mockCommentService{
		saveCommentFn: func(ctx context.Context, authUser model.AuthUser, todoID int64, contents string) (*model.CommentWithUser, error) {
			return nil, model.NewCommentParentNotFoundError()
		},
	}
	h := NewCommentHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/todos/99/comments", strings.NewReader(`{"contents":"orphan"}`))
	req = withAuthUser(req, model.AuthUser{ID: 2})
	req = withURLParams(req, map[string]string{"todoId": "99"})
	rec := httptest.NewRecorder()

	h.SaveComment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Message != "Todo not found" {
		t.Errorf("message = %q, want %q", body.Message, "Todo not found")
	}
}

// TestCommentHandler_SaveComment_BlankContents はコンテンツ空のリクエストを検証する。
func TestCommentHandler_SaveComment_BlankContents(t *testing.T) {
	svc := &mockCommentService{
		saveCommentFn: func(ctx context.Context, authUser model.AuthUser, todoID int64, contents string) (*model.CommentWithUser, error) {
			t.Error("service should not be called on validation failure")
			return nil, nil
		},
	}
	h := NewCommentHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/todos/1/comments", strings.NewReader(`{"contents":""}`))
	req = withAuthUser(req, model.AuthUser{ID: 2})
	req = withURLParams(req, map[string]string{"todoId": "1"})
	rec := httptest.NewRecorder()

	h.SaveComment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// --- GetComments ---

// TestCommentHandler_GetComments_Empty はコメントゼロ件で空配列が返ることを検証する。
func TestCommentHandler_GetComments_Empty(t *testing.T) {
	svc := &mockCommentService{
		getCommentsFn: func(ctx context.Context, todoID int64) ([]model.CommentWithUser, error) {
			return []model.CommentWithUser{}, nil
		},
	}
	h := NewCommentHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/todos/1/comments", nil)
	req = withURLParams(req, map[string]string{"todoId": "1"})
	rec := httptest.NewRecorder()

	h.GetComments(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}
