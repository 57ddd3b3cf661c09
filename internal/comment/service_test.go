package comment

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

type mockTodoRepo struct {
	findByIDFn func(ctx context.Context, id int64) (*model.Todo, error)
}

func (m *mockTodoRepo) FindByID(ctx context.Context, id int64) (*model.Todo, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockTodoRepo) FindByIDWithUser(ctx context.Context, id int64) (*model.TodoWithUser, error) {
	return nil, nil
}
func (m *mockTodoRepo) Create(ctx context.Context, todo *model.Todo) error {
	return nil
}
func (m *mockTodoRepo) ListWithUser(ctx context.Context, offset, limit int) ([]model.TodoWithUser, error) {
	return nil, nil
}
func (m *mockTodoRepo) CountAll(ctx context.Context) (int64, error) {
	return 0, nil
}

type mockCommentRepo struct {
	createFn    func(ctx context.Context, comment *model.Comment) error
	listFn      func(ctx context.Context, todoID int64) ([]model.CommentWithUser, error)
	deleteFn    func(ctx context.Context, id int64) error
	createCalls int
	deleteCalls int
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}
func (m *mockCommentRepo) ListByTodoIDWithUser(ctx context.Context, todoID int64) ([]model.CommentWithUser, error) {
	return m.listFn(ctx, todoID)
}
func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

func newTestService(todoRepo *mockTodoRepo, commentRepo *mockCommentRepo) *Service {
	txRunner := &mockTxRunner{
		repos: repository.Repos{
			Todos:    todoRepo,
			Comments: commentRepo,
		},
	}
	return NewService(txRunner, commentRepo, passthroughSanitizer{})
}

// --- SaveComment ---

// TestService_SaveComment_Success は正常系のコメント作成を検証する。
func TestService_SaveComment_Success(t *testing.T) {
	ownerID := int64(1)
	todoRepo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Todo, error) {
			return &model.Todo{ID: id, UserID: &ownerID}, nil
		},
	}
	commentRepo := &mockCommentRepo{
		createFn: func(ctx context.Context, comment *model.Comment) error {
			comment.ID = 100
			return nil
		},
	}
	svc := newTestService(todoRepo, commentRepo)

	authUser := model.AuthUser{ID: 2, Email: "commenter@example.com"}
	got, err := svc.SaveComment(context.Background(), authUser, 1, "nice")
	if err != nil {
		t.Fatalf("SaveComment failed: %v", err)
	}
	if got.Comment.ID != 100 || got.Comment.Contents != "nice" {
		t.Errorf("unexpected comment: %+v", got.Comment)
	}
	if got.User.ID != 2 || got.User.Email != "commenter@example.com" {
		t.Errorf("unexpected user: %+v", got.User)
	}
}

// TestService_SaveComment_TodoNotFound は存在しないTodoへのコメントが
// 永続化前に拒否されることを検証する。
func TestService_SaveComment_TodoNotFound(t *testing.T) {
	todoRepo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Todo, error) {
			return nil, nil
		},
	}
	commentRepo := &mockCommentRepo{}
	svc := newTestService(todoRepo, commentRepo)

	_, err := svc.SaveComment(context.Background(), model.AuthUser{ID: 2}, 99, "orphan")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	// 親Todo不在はリクエスト不正として扱われる（NotFoundではない）
	if apiErr.Message != "Todo not found" || apiErr.Kind != model.KindInvalidRequest {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if commentRepo.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", commentRepo.createCalls)
	}
}

// --- GetComments ---

// TestService_GetComments_Empty はコメントの無いTodoで空スライスが返ることを検証する。
func TestService_GetComments_Empty(t *testing.T) {
	commentRepo := &mockCommentRepo{
		listFn: func(ctx context.Context, todoID int64) ([]model.CommentWithUser, error) {
			return []model.CommentWithUser{}, nil
		},
	}
	svc := newTestService(&mockTodoRepo{}, commentRepo)

	got, err := svc.GetComments(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetComments failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty slice, got %d entries", len(got))
	}
}

// TestService_GetComments_List はコメント一覧が投稿ユーザー付きで返ることを検証する。
func TestService_GetComments_List(t *testing.T) {
	commentRepo := &mockCommentRepo{
		listFn: func(ctx context.Context, todoID int64) ([]model.CommentWithUser, error) {
			return []model.CommentWithUser{
				{
					Comment: model.Comment{ID: 1, Contents: "first", TodoID: todoID},
					User:    model.User{ID: 2, Email: "a@example.com"},
				},
				{
					Comment: model.Comment{ID: 2, Contents: "second", TodoID: todoID},
					User:    model.User{ID: 3, Email: "b@example.com"},
				},
			}, nil
		},
	}
	svc := newTestService(&mockTodoRepo{}, commentRepo)

	got, err := svc.GetComments(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetComments failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(got))
	}
	if got[0].Comment.ID != 1 || got[1].Comment.ID != 2 {
		t.Errorf("comments out of order: %+v", got)
	}
}

// --- DeleteComment ---

// TestService_DeleteComment は管理者削除が無条件に実行されることを検証する。
// 対象が存在しない場合も成功として扱う。
func TestService_DeleteComment(t *testing.T) {
	commentRepo := &mockCommentRepo{}
	svc := newTestService(&mockTodoRepo{}, commentRepo)

	if err := svc.DeleteComment(context.Background(), 42); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if commentRepo.deleteCalls != 1 {
		t.Errorf("deleteCalls = %d, want 1", commentRepo.deleteCalls)
	}
}
