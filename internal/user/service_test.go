package user

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// --- モック ---

type mockTxRunner struct {
	repos repository.Repos
}

func (m *mockTxRunner) InTx(ctx context.Context, fn func(repository.Repos) error) error {
	return fn(m.repos)
}

type mockUserRepo struct {
	findByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	updatePasswordFn    func(ctx context.Context, id int64, hash string) error
	updateRoleFn        func(ctx context.Context, id int64, role model.UserRole) error
	updatePasswordCalls int
	updateRoleCalls     int
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return nil
}
func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	m.updatePasswordCalls++
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, hash)
	}
	return nil
}
func (m *mockUserRepo) UpdateRole(ctx context.Context, id int64, role model.UserRole) error {
	m.updateRoleCalls++
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, id, role)
	}
	return nil
}

// fakeHasher は平文に接頭辞を付けるだけのテスト用ハッシャー。
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}
func (fakeHasher) Matches(password, hash string) bool {
	return "hashed:"+password == hash
}

func newTestService(userRepo *mockUserRepo) *Service {
	txRunner := &mockTxRunner{repos: repository.Repos{Users: userRepo}}
	return NewService(txRunner, userRepo, fakeHasher{})
}

func assertAPIError(t *testing.T, err error, wantMessage string, wantKind model.ErrorKind) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != wantMessage {
		t.Errorf("message = %q, want %q", apiErr.Message, wantMessage)
	}
	if apiErr.Kind != wantKind {
		t.Errorf("kind = %q, want %q", apiErr.Kind, wantKind)
	}
}

// --- GetUser ---

// TestService_GetUser_NotFound は存在しないユーザーの取得を検証する。
func TestService_GetUser_NotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, nil
		},
	}
	svc := newTestService(userRepo)

	_, err := svc.GetUser(context.Background(), 99)

	assertAPIError(t, err, "User not found", model.KindNotFound)
}

// TestService_GetUser_Found はユーザー取得の正常系を検証する。
func TestService_GetUser_Found(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Email: "user@example.com"}, nil
		},
	}
	svc := newTestService(userRepo)

	got, err := svc.GetUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.ID != 1 || got.Email != "user@example.com" {
		t.Errorf("unexpected user: %+v", got)
	}
}

// --- ChangePassword ---

// TestService_ChangePassword_Success は正常系のパスワード変更を検証する。
func TestService_ChangePassword_Success(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, PasswordHash: "hashed:OldPass1"}, nil
		},
	}
	svc := newTestService(userRepo)

	err := svc.ChangePassword(context.Background(), 1, "OldPass1", "NewPass1")
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if userRepo.updatePasswordCalls != 1 {
		t.Errorf("updatePasswordCalls = %d, want 1", userRepo.updatePasswordCalls)
	}
}

// TestService_ChangePassword_UserNotFound はユーザー不在時の失敗を検証する。
func TestService_ChangePassword_UserNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, nil
		},
	}
	svc := newTestService(userRepo)

	err := svc.ChangePassword(context.Background(), 99, "OldPass1", "NewPass1")

	assertAPIError(t, err, "User not found", model.KindNotFound)
}

// TestService_ChangePassword_SamePassword は新旧同一パスワードの拒否を検証する。
// 新パスワードのハッシュ一致チェックは旧パスワードの照合より先に行われる。
func TestService_ChangePassword_SamePassword(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, PasswordHash: "hashed:SamePass1"}, nil
		},
	}
	svc := newTestService(userRepo)

	// 旧パスワードが間違っていても、新旧同一チェックが先に走る
	err := svc.ChangePassword(context.Background(), 1, "WrongOld1", "SamePass1")

	assertAPIError(t, err, "new password cannot equal old password", model.KindInvalidRequest)
	if userRepo.updatePasswordCalls != 0 {
		t.Errorf("updatePasswordCalls = %d, want 0", userRepo.updatePasswordCalls)
	}
}

// TestService_ChangePassword_WrongOldPassword は旧パスワード不一致の拒否を検証する。
func TestService_ChangePassword_WrongOldPassword(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, PasswordHash: "hashed:OldPass1"}, nil
		},
	}
	svc := newTestService(userRepo)

	err := svc.ChangePassword(context.Background(), 1, "WrongOld1", "NewPass1")

	assertAPIError(t, err, "wrong password", model.KindInvalidRequest)
	if userRepo.updatePasswordCalls != 0 {
		t.Errorf("updatePasswordCalls = %d, want 0", userRepo.updatePasswordCalls)
	}
}

// --- ChangeUserRole ---

// TestService_ChangeUserRole はロール変更の検証順序と結果を検証する。
// ユーザー存在確認がロール文字列の検証より先に行われる。
func TestService_ChangeUserRole(t *testing.T) {
	tests := []struct {
		name        string
		user        *model.User
		role        string
		wantErr     bool
		wantMessage string
		wantKind    model.ErrorKind
		wantUpdates int
	}{
		{
			name:        "promote to admin",
			user:        &model.User{ID: 1, Role: model.UserRoleUser},
			role:        "ADMIN",
			wantUpdates: 1,
		},
		{
			name:        "demote to user",
			user:        &model.User{ID: 1, Role: model.UserRoleAdmin},
			role:        "USER",
			wantUpdates: 1,
		},
		{
			name:        "user absent checked before role parse",
			user:        nil,
			role:        "BOGUS",
			wantErr:     true,
			wantMessage: "User not found",
			wantKind:    model.KindNotFound,
		},
		{
			name:        "invalid role",
			user:        &model.User{ID: 1, Role: model.UserRoleUser},
			role:        "SUPERUSER",
			wantErr:     true,
			wantMessage: "invalid user role: SUPERUSER",
			wantKind:    model.KindInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepo{
				findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
					return tt.user, nil
				},
			}
			svc := newTestService(userRepo)

			err := svc.ChangeUserRole(context.Background(), 1, tt.role)

			if tt.wantErr {
				assertAPIError(t, err, tt.wantMessage, tt.wantKind)
			} else if err != nil {
				t.Fatalf("ChangeUserRole failed: %v", err)
			}
			if userRepo.updateRoleCalls != tt.wantUpdates {
				t.Errorf("updateRoleCalls = %d, want %d", userRepo.updateRoleCalls, tt.wantUpdates)
			}
		})
	}
}
