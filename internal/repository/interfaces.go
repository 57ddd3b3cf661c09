// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"

	"github.com/hitoshi/todoman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ExistsByEmail は指定メールアドレスのユーザーが存在するかを返す。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create はユーザーを作成し、採番されたIDをuser.IDに書き戻す。
	Create(ctx context.Context, user *model.User) error

	// UpdatePasswordHash はパスワードハッシュを更新する。
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// UpdateRole はユーザーの権限区分を更新する。
	UpdateRole(ctx context.Context, id int64, role model.UserRole) error
}

// TodoRepository はTodoデータの永続化インターフェース。
type TodoRepository interface {
	// FindByID は指定IDのTodoを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Todo, error)

	// FindByIDWithUser は指定IDのTodoを所有ユーザーとJOINして取得する。
	// Todoが見つからない場合はnilを返す。所有者カラムがNULLの場合はUserがnilになる。
	FindByIDWithUser(ctx context.Context, id int64) (*model.TodoWithUser, error)

	// Create はTodoを作成し、採番されたIDをtodo.IDに書き戻す。
	Create(ctx context.Context, todo *model.Todo) error

	// ListWithUser はTodo一覧を所有ユーザー付きでupdated_at降順に取得する。
	ListWithUser(ctx context.Context, offset, limit int) ([]model.TodoWithUser, error)

	// CountAll はTodoの総件数を返す。ページメタデータの算出に使用する。
	CountAll(ctx context.Context) (int64, error)
}

// ManagerRepository は担当者割り当てデータの永続化インターフェース。
type ManagerRepository interface {
	// FindByID は指定IDのManagerを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Manager, error)

	// Create はManagerを作成し、採番されたIDをmanager.IDに書き戻す。
	Create(ctx context.Context, manager *model.Manager) error

	// ListByTodoIDWithUser は指定Todoの担当者一覧を担当ユーザーとJOINして取得する。
	// 並び順はmanager id昇順（元実装はJOIN順に依存していたため明示的に固定する）。
	ListByTodoIDWithUser(ctx context.Context, todoID int64) ([]model.ManagerWithUser, error)

	// Delete は指定IDのManagerを削除する。
	Delete(ctx context.Context, id int64) error
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// Create はコメントを作成し、採番されたIDをcomment.IDに書き戻す。
	Create(ctx context.Context, comment *model.Comment) error

	// ListByTodoIDWithUser は指定Todoのコメント一覧を投稿ユーザーとJOINして
	// comment id昇順に取得する。コメントが無い場合は空スライスを返す。
	ListByTodoIDWithUser(ctx context.Context, todoID int64) ([]model.CommentWithUser, error)

	// Delete は指定IDのコメントを削除する。該当行が無くてもエラーにしない。
	Delete(ctx context.Context, id int64) error
}

// DBTX はdatabase/sqlの実行インターフェース。
// *sql.DBと*sql.Txの両方が満たすため、同一のリポジトリ実装を
// トランザクション内外で使い回せる。
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
