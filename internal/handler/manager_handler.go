package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// ManagerServiceInterface はマネージャーハンドラーが必要とするサービスインターフェース。
type ManagerServiceInterface interface {
	// SaveManager は指定Todoにユーザーをマネージャーとしてアサインする。
	SaveManager(ctx context.Context, authUser model.AuthUser, todoID, targetUserID int64) (*model.ManagerWithUser, error)
	// GetManagers は指定Todoのマネージャー一覧をユーザー付きで返す。
	GetManagers(ctx context.Context, todoID int64) ([]model.ManagerWithUser, error)
	// DeleteManager は所有者による検証付きのマネージャー解除を実行する。
	DeleteManager(ctx context.Context, authUser model.AuthUser, todoID, managerID int64) error
}

// ManagerHandler はマネージャー管理のHTTPハンドラー。
type ManagerHandler struct {
	service ManagerServiceInterface
}

// NewManagerHandler はManagerHandlerを生成する。
func NewManagerHandler(service ManagerServiceInterface) *ManagerHandler {
	return &ManagerHandler{service: service}
}

// saveManagerRequest はマネージャー任命リクエストのボディ。
type saveManagerRequest struct {
	UserID int64 `json:"userId"`
}

// managerResponse はマネージャー情報のAPIレスポンス。
type managerResponse struct {
	ID   int64        `json:"id"`
	User userResponse `json:"user"`
}

// SaveManager はマネージャー任命を処理する。
// POST /todos/{todoId}/managers
func (h *ManagerHandler) SaveManager(w http.ResponseWriter, r *http.Request) {
	authUser, err := middleware.AuthUserFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	todoID, err := parseIDParam(r, "todoId")
	if err != nil {
		writeInvalidRequest(w, "INVALID_REQUEST", "todo id must be a positive integer")
		return
	}

	var req saveManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}

	if req.UserID < 1 {
		writeInvalidRequest(w, "INVALID_REQUEST", "userId must be a positive integer")
		return
	}

	created, err := h.service.SaveManager(r.Context(), authUser, todoID, req.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toManagerResponse(created))
}

// GetManagers はマネージャー一覧取得を処理する。アサインが無い場合は空配列を返す。
// GET /todos/{todoId}/managers
func (h *ManagerHandler) GetManagers(w http.ResponseWriter, r *http.Request) {
	todoID, err := parseIDParam(r, "todoId")
	if err != nil {
		writeInvalidRequest(w, "INVALID_REQUEST", "todo id must be a positive integer")
		return
	}

	managers, err := h.service.GetManagers(r.Context(), todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]managerResponse, 0, len(managers))
	for i := range managers {
		responses = append(responses, toManagerResponse(&managers[i]))
	}

	writeJSON(w, http.StatusOK, responses)
}

// DeleteManager はマネージャー解除を処理する。
// DELETE /todos/{todoId}/managers/{managerId}
func (h *ManagerHandler) DeleteManager(w http.ResponseWriter, r *http.Request) {
	authUser, err := middleware.AuthUserFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	todoID, err := parseIDParam(r, "todoId")
	if err != nil {
		writeInvalidRequest(w, "INVALID_REQUEST", "todo id must be a positive integer")
		return
	}

	managerID, err := parseIDParam(r, "managerId")
	if err != nil {
		writeInvalidRequest(w, "INVALID_REQUEST", "manager id must be a positive integer")
		return
	}

	if err := h.service.DeleteManager(r.Context(), authUser, todoID, managerID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// toManagerResponse はmodel.ManagerWithUserからAPIレスポンスに変換する。
func toManagerResponse(m *model.ManagerWithUser) managerResponse {
	return managerResponse{
		ID:   m.Manager.ID,
		User: toUserResponse(&m.User),
	}
}
