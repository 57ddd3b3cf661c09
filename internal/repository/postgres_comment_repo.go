package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	q DBTX
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(q DBTX) *PostgresCommentRepo {
	return &PostgresCommentRepo{q: q}
}

// Create はコメントを作成し、採番されたIDをcomment.IDに書き戻す。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	err := r.q.QueryRowContext(ctx,
		`INSERT INTO comments (contents, user_id, todo_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		comment.Contents, comment.UserID, comment.TodoID, comment.CreatedAt, comment.UpdatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// ListByTodoIDWithUser は指定Todoのコメント一覧を投稿ユーザーとJOINして
// comment id昇順に取得する。コメントが無い場合は空スライスを返す。
func (r *PostgresCommentRepo) ListByTodoIDWithUser(ctx context.Context, todoID int64) ([]model.CommentWithUser, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT c.id, c.contents, c.user_id, c.todo_id, c.created_at, c.updated_at,
		        u.id, u.email
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.todo_id = $1
		 ORDER BY c.id ASC`,
		todoID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	results := []model.CommentWithUser{}
	for rows.Next() {
		cw := model.CommentWithUser{}
		if err := rows.Scan(
			&cw.ID, &cw.Contents, &cw.Comment.UserID, &cw.TodoID, &cw.CreatedAt, &cw.UpdatedAt,
			&cw.User.ID, &cw.User.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		results = append(results, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comment rows: %w", err)
	}
	return results, nil
}

// Delete は指定IDのコメントを削除する。
// 管理者による削除は対象が既に消えていても成功として扱うため、
// 削除行数は確認しない。
func (r *PostgresCommentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
