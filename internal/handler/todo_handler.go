package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/todo"
)

// TodoServiceInterface はTodoハンドラーが必要とするサービスインターフェース。
type TodoServiceInterface interface {
	// SaveTodo は操作ユーザーを所有者とする新規Todoを作成する。
	SaveTodo(ctx context.Context, authUser model.AuthUser, title, contents string) (*model.TodoWithUser, error)
	// GetTodos はTodo一覧をページネーション付きで返す。
	GetTodos(ctx context.Context, page, size int) (*todo.Page, error)
	// GetTodo は指定IDのTodoを所有ユーザー付きで返す。
	GetTodo(ctx context.Context, todoID int64) (*model.TodoWithUser, error)
}

// TodoHandler はTodo管理のHTTPハンドラー。
type TodoHandler struct {
	service TodoServiceInterface
}

// NewTodoHandler はTodoHandlerを生成する。
func NewTodoHandler(service TodoServiceInterface) *TodoHandler {
	return &TodoHandler{service: service}
}

// saveTodoRequest はTodo作成リクエストのボディ。
type saveTodoRequest struct {
	Title    string `json:"title"`
	Contents string `json:"contents"`
}

// todoResponse はTodo情報のAPIレスポンス。
type todoResponse struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Contents  string        `json:"contents"`
	Weather   string        `json:"weather"`
	User      *userResponse `json:"user"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// todoPageResponse はページネーション付きのTodo一覧レスポンス。
type todoPageResponse struct {
	Content       []todoResponse `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int64          `json:"totalPages"`
}

// SaveTodo はTodo作成を処理する。
// POST /todos
func (h *TodoHandler) SaveTodo(w http.ResponseWriter, r *http.Request) {
	authUser, err := middleware.AuthUserFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req saveTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}

	if req.Title == "" {
		writeInvalidRequest(w, "INVALID_TITLE", "title must not be blank")
		return
	}

	created, err := h.service.SaveTodo(r.Context(), authUser, req.Title, req.Contents)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoResponse(created))
}

// GetTodos はTodo一覧取得を処理する。ページ番号は1始まり。
// GET /todos?page&size
func (h *TodoHandler) GetTodos(w http.ResponseWriter, r *http.Request) {
	page := parseQueryInt(r, "page", 1)
	size := parseQueryInt(r, "size", 10)

	result, err := h.service.GetTodos(r.Context(), page, size)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	content := make([]todoResponse, 0, len(result.Items))
	for i := range result.Items {
		content = append(content, toTodoResponse(&result.Items[i]))
	}

	writeJSON(w, http.StatusOK, todoPageResponse{
		Content:       content,
		Page:          result.Page,
		Size:          result.Size,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
	})
}

// GetTodo はTodo詳細取得を処理する。
// GET /todos/{todoId}
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	todoID, err := parseIDParam(r, "todoId")
	if err != nil {
		writeInvalidRequest(w, "INVALID_REQUEST", "todo id must be a positive integer")
		return
	}

	found, err := h.service.GetTodo(r.Context(), todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoResponse(found))
}

// toTodoResponse はmodel.TodoWithUserからAPIレスポンスに変換する。
func toTodoResponse(t *model.TodoWithUser) todoResponse {
	resp := todoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Contents:  t.Contents,
		Weather:   t.Weather,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.User != nil {
		u := toUserResponse(t.User)
		resp.User = &u
	}
	return resp
}

// parseQueryInt はクエリパラメータを数値として解析する。不正値はフォールバックを返す。
func parseQueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
