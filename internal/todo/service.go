// Package todo はTodoライフサイクルのドメインロジックを提供する。
package todo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
	"github.com/hitoshi/todoman/internal/security"
	"github.com/hitoshi/todoman/internal/weather"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page はページネーション付きのTodo一覧。
// ページ番号は1始まり。
type Page struct {
	Items         []model.TodoWithUser
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int64
}

// Service はTodoライフサイクルのサービス層。
// 作成時に外部天気APIから天気スナップショットを取得する。
type Service struct {
	txRunner  repository.TxRunner
	todoRepo  repository.TodoRepository
	weather   weather.Service
	sanitizer security.ContentSanitizerService
	metrics   metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	txRunner repository.TxRunner,
	todoRepo repository.TodoRepository,
	weatherSvc weather.Service,
	sanitizer security.ContentSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		txRunner:  txRunner,
		todoRepo:  todoRepo,
		weather:   weatherSvc,
		sanitizer: sanitizer,
		metrics:   collector,
	}
}

// SaveTodo は操作ユーザーを所有者とする新規Todoを作成する。
// 天気スナップショットの取得失敗は外部依存の障害であり、
// 呼び出し側の誤りではないためサーバー系エラーとして伝播する。
func (s *Service) SaveTodo(ctx context.Context, authUser model.AuthUser, title, contents string) (*model.TodoWithUser, error) {
	w, err := s.weather.GetTodayWeather(ctx)
	if err != nil {
		slog.Error("weather lookup failed", slog.String("error", err.Error()))
		return nil, model.NewWeatherUnavailableError(err.Error())
	}

	ownerID := authUser.ID
	todo := &model.Todo{
		Title:    title,
		Contents: s.sanitizer.Sanitize(contents),
		Weather:  w,
		UserID:   &ownerID,
	}

	err = s.txRunner.InTx(ctx, func(r repository.Repos) error {
		return r.Todos.Create(ctx, todo)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTodoCreated()
	slog.Info("todo created",
		slog.Int64("todo_id", todo.ID),
		slog.Int64("user_id", authUser.ID),
	)

	return &model.TodoWithUser{
		Todo: *todo,
		User: &model.User{ID: authUser.ID, Email: authUser.Email},
	}, nil
}

// GetTodos はTodo一覧を更新日時の新しい順に返す。
// pageは1始まりで、ストレージへの問い合わせでは0始まりのオフセットに変換する。
// 結果が空でもエラーにはならず、空ページを返す。
func (s *Service) GetTodos(ctx context.Context, page, size int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	offset := (page - 1) * size

	items, err := s.todoRepo.ListWithUser(ctx, offset, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	total, err := s.todoRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count todos: %w", err)
	}

	totalPages := total / int64(size)
	if total%int64(size) != 0 {
		totalPages++
	}

	return &Page{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// GetTodo は指定IDのTodoを所有ユーザー付きで返す。
func (s *Service) GetTodo(ctx context.Context, todoID int64) (*model.TodoWithUser, error) {
	todo, err := s.todoRepo.FindByIDWithUser(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError()
	}
	return todo, nil
}
