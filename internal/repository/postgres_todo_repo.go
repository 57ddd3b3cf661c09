package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresTodoRepo はPostgreSQLを使用したTodoリポジトリ。
type PostgresTodoRepo struct {
	q DBTX
}

// NewPostgresTodoRepo はPostgresTodoRepoを生成する。
func NewPostgresTodoRepo(q DBTX) *PostgresTodoRepo {
	return &PostgresTodoRepo{q: q}
}

// FindByID は指定IDのTodoを取得する。見つからない場合はnilを返す。
func (r *PostgresTodoRepo) FindByID(ctx context.Context, id int64) (*model.Todo, error) {
	todo := &model.Todo{}
	err := r.q.QueryRowContext(ctx,
		`SELECT id, title, contents, weather, user_id, created_at, updated_at
		 FROM todos WHERE id = $1`,
		id,
	).Scan(&todo.ID, &todo.Title, &todo.Contents, &todo.Weather, &todo.UserID, &todo.CreatedAt, &todo.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo by ID: %w", err)
	}

	return todo, nil
}

// FindByIDWithUser は指定IDのTodoを所有ユーザーとLEFT JOINして取得する。
// Todoが見つからない場合はnilを返す。user_idがNULLの場合はUserがnilになる。
func (r *PostgresTodoRepo) FindByIDWithUser(ctx context.Context, id int64) (*model.TodoWithUser, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT t.id, t.title, t.contents, t.weather, t.user_id, t.created_at, t.updated_at,
		        u.id, u.email
		 FROM todos t
		 LEFT JOIN users u ON u.id = t.user_id
		 WHERE t.id = $1`,
		id,
	)

	tw, err := scanTodoWithUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo with user: %w", err)
	}
	return tw, nil
}

// Create はTodoを作成し、採番されたIDをtodo.IDに書き戻す。
func (r *PostgresTodoRepo) Create(ctx context.Context, todo *model.Todo) error {
	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	err := r.q.QueryRowContext(ctx,
		`INSERT INTO todos (title, contents, weather, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		todo.Title, todo.Contents, todo.Weather, todo.UserID, todo.CreatedAt, todo.UpdatedAt,
	).Scan(&todo.ID)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

// ListWithUser はTodo一覧を所有ユーザー付きでupdated_at降順に取得する。
func (r *PostgresTodoRepo) ListWithUser(ctx context.Context, offset, limit int) ([]model.TodoWithUser, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT t.id, t.title, t.contents, t.weather, t.user_id, t.created_at, t.updated_at,
		        u.id, u.email
		 FROM todos t
		 LEFT JOIN users u ON u.id = t.user_id
		 ORDER BY t.updated_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	results := []model.TodoWithUser{}
	for rows.Next() {
		tw, err := scanTodoWithUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo row: %w", err)
		}
		results = append(results, *tw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todo rows: %w", err)
	}
	return results, nil
}

// CountAll はTodoの総件数を返す。
func (r *PostgresTodoRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通スキャンインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTodoWithUser はtodos LEFT JOIN usersの1行をTodoWithUserに読み込む。
func scanTodoWithUser(row rowScanner) (*model.TodoWithUser, error) {
	tw := &model.TodoWithUser{}
	var ownerID sql.NullInt64
	var ownerEmail sql.NullString

	err := row.Scan(
		&tw.ID, &tw.Title, &tw.Contents, &tw.Weather, &tw.UserID, &tw.CreatedAt, &tw.UpdatedAt,
		&ownerID, &ownerEmail,
	)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		tw.User = &model.User{ID: ownerID.Int64, Email: ownerEmail.String}
	}
	return tw, nil
}

// compile-time interface check
var _ TodoRepository = (*PostgresTodoRepo)(nil)
