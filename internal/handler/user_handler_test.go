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

type mockUserService struct {
	getUserFn        func(ctx context.Context, userID int64) (*model.User, error)
	changePasswordFn func(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

func (m *mockUserService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return m.getUserFn(ctx, userID)
}
func (m *mockUserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	return m.changePasswordFn(ctx, userID, oldPassword, newPassword)
}

// --- GetUser ---

// TestUserHandler_GetUser_Success はユーザー情報取得を検証する。
// レスポンスにパスワードハッシュが含まれないこと。
func TestUserHandler_GetUser_Success(t *testing.T) {
	svc := &mockUserService{
		getUserFn: func(ctx context.Context, userID int64) (*model.User, error) {
			return &model.User{ID: userID, Email: "user@example.com", PasswordHash: "secret-hash"}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
	req = withURLParams(req, map[string]string{"userId": "1"})
	rec := httptest.NewRecorder()

	h.GetUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Error("response must not leak the password hash")
	}
	var body userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.ID != 1 || body.Email != "user@example.com" {
		t.Errorf("unexpected response: %+v", body)
	}
}

// TestUserHandler_GetUser_NotFound はユーザー不在で404が返ることを検証する。
func TestUserHandler_GetUser_NotFound(t *testing.T) {
	svc := &mockUserService{
		getUserFn: func(ctx context.Context, userID int64) (*model.User, error) {
			return nil, model.NewUserNotFoundError()
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/99", nil)
	req = withURLParams(req, map[string]string{"userId": "99"})
	rec := httptest.NewRecorder()

	h.GetUser(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// --- ChangePassword ---

// TestUserHandler_ChangePassword_Success は正常系のパスワード変更を検証する。
// 対象ユーザーは認証済みプリンシパルから決定される。
func TestUserHandler_ChangePassword_Success(t *testing.T) {
	svc := &mockUserService{
		changePasswordFn: func(ctx context.Context, userID int64, oldPassword, newPassword string) error {
			if userID != 7 {
				t.Errorf("userID = %d, want 7", userID)
			}
			return nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/users",
		strings.NewReader(`{"oldPassword":"OldPass1","newPassword":"NewPass1"}`))
	req = withAuthUser(req, model.AuthUser{ID: 7})
	rec := httptest.NewRecorder()

	h.ChangePassword(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

// TestUserHandler_ChangePassword_Complexity は新パスワードの複雑性要件を検証する。
// 8文字以上、数字と大文字を含むこと。
func TestUserHandler_ChangePassword_Complexity(t *testing.T) {
	tests := []struct {
		name        string
		newPassword string
	}{
		{name: "too short", newPassword: "Np1"},
		{name: "no digit", newPassword: "NoDigitsHere"},
		{name: "no uppercase", newPassword: "nouppercase1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockUserService{
				changePasswordFn: func(ctx context.Context, userID int64, oldPassword, newPassword string) error {
					t.Error("service should not be called on validation failure")
					return nil
				},
			}
			h := NewUserHandler(svc)

			req := httptest.NewRequest(http.MethodPut, "/users",
				strings.NewReader(`{"oldPassword":"OldPass1","newPassword":"`+tt.newPassword+`"}`))
			req = withAuthUser(req, model.AuthUser{ID: 7})
			rec := httptest.NewRecorder()

			h.ChangePassword(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

// TestUserHandler_ChangePassword_SamePassword は新旧同一パスワードで400が返ることを検証する。
func TestUserHandler_ChangePassword_SamePassword(t *testing.T) {
	svc := &mockUserService{
		changePasswordFn: func(ctx context.Context, userID int64, oldPassword, newPassword string) error {
			return model.NewSamePasswordError()
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/users",
		strings.NewReader(`{"oldPassword":"SamePass1","newPassword":"SamePass1"}`))
	req = withAuthUser(req, model.AuthUser{ID: 7})
	rec := httptest.NewRecorder()

	h.ChangePassword(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Message != "new password cannot equal old password" {
		t.Errorf("message = %q", body.Message)
	}
}
