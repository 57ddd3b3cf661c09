package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Repos は1つの実行コンテキスト（DB接続またはトランザクション）に
// 束縛されたリポジトリ群。
type Repos struct {
	Users    UserRepository
	Todos    TodoRepository
	Managers ManagerRepository
	Comments CommentRepository
}

// NewRepos は指定の実行コンテキスト上にリポジトリ群を構築する。
func NewRepos(q DBTX) Repos {
	return Repos{
		Users:    NewPostgresUserRepo(q),
		Todos:    NewPostgresTodoRepo(q),
		Managers: NewPostgresManagerRepo(q),
		Comments: NewPostgresCommentRepo(q),
	}
}

// TxRunner は検証と書き込みを単一トランザクションで実行するインターフェース。
// ガード付き操作（検証後に書き込む操作）は必ずInTx内で実行し、
// 検証失敗時にロールバックが保証されるようにする。
type TxRunner interface {
	// InTx はトランザクションを開始し、トランザクション束縛の
	// リポジトリ群をfnに渡して実行する。fnがエラーを返した場合は
	// ロールバックし、そのエラーをそのまま返す。
	InTx(ctx context.Context, fn func(r Repos) error) error
}

// PostgresTxRunner はdatabase/sqlトランザクションによるTxRunner実装。
type PostgresTxRunner struct {
	db *sql.DB
}

// NewPostgresTxRunner はPostgresTxRunnerを生成する。
func NewPostgresTxRunner(db *sql.DB) *PostgresTxRunner {
	return &PostgresTxRunner{db: db}
}

// InTx はトランザクションを開始してfnを実行する。
// fnのエラーはラップせずに返す。サービス層のAPIErrorを
// handler層までそのまま伝播させるため。
func (x *PostgresTxRunner) InTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TxRunner = (*PostgresTxRunner)(nil)
