package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresManagerRepo はPostgreSQLを使用した担当者リポジトリ。
type PostgresManagerRepo struct {
	q DBTX
}

// NewPostgresManagerRepo はPostgresManagerRepoを生成する。
func NewPostgresManagerRepo(q DBTX) *PostgresManagerRepo {
	return &PostgresManagerRepo{q: q}
}

// FindByID は指定IDのManagerを取得する。見つからない場合はnilを返す。
func (r *PostgresManagerRepo) FindByID(ctx context.Context, id int64) (*model.Manager, error) {
	manager := &model.Manager{}
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, todo_id, created_at FROM managers WHERE id = $1`,
		id,
	).Scan(&manager.ID, &manager.UserID, &manager.TodoID, &manager.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find manager by ID: %w", err)
	}

	return manager, nil
}

// Create はManagerを作成し、採番されたIDをmanager.IDに書き戻す。
func (r *PostgresManagerRepo) Create(ctx context.Context, manager *model.Manager) error {
	manager.CreatedAt = time.Now()

	err := r.q.QueryRowContext(ctx,
		`INSERT INTO managers (user_id, todo_id, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		manager.UserID, manager.TodoID, manager.CreatedAt,
	).Scan(&manager.ID)
	if err != nil {
		return fmt.Errorf("failed to insert manager: %w", err)
	}
	return nil
}

// ListByTodoIDWithUser は指定Todoの担当者一覧を担当ユーザーとJOINして
// manager id昇順に取得する。担当者が無い場合は空スライスを返す。
func (r *PostgresManagerRepo) ListByTodoIDWithUser(ctx context.Context, todoID int64) ([]model.ManagerWithUser, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT m.id, m.user_id, m.todo_id, m.created_at, u.id, u.email
		 FROM managers m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.todo_id = $1
		 ORDER BY m.id ASC`,
		todoID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	defer rows.Close()

	results := []model.ManagerWithUser{}
	for rows.Next() {
		mw := model.ManagerWithUser{}
		if err := rows.Scan(
			&mw.ID, &mw.Manager.UserID, &mw.TodoID, &mw.CreatedAt,
			&mw.User.ID, &mw.User.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan manager row: %w", err)
		}
		results = append(results, mw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate manager rows: %w", err)
	}
	return results, nil
}

// Delete は指定IDのManagerを削除する。
func (r *PostgresManagerRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM managers WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete manager: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("manager not found: %d", id)
	}
	return nil
}

// compile-time interface check
var _ ManagerRepository = (*PostgresManagerRepo)(nil)
