// Package handler はHTTP APIのハンドラー層を提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/todoman/internal/model"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// userResponse はユーザー情報のAPIレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Kind:    string(apiErr.Kind),
	})
}

// writeInvalidRequest はバリデーションエラーのレスポンスを書き込む。
func writeInvalidRequest(w http.ResponseWriter, code, message string) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:    code,
		Message: message,
		Kind:    model.KindInvalidRequest,
	})
}

// writeBodyParseError はリクエストボディの解析失敗レスポンスを書き込む。
func writeBodyParseError(w http.ResponseWriter) {
	writeInvalidRequest(w, "INVALID_REQUEST", "failed to parse request body")
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapKindToHTTPStatus(apiErr.Kind), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
		Kind:    model.KindServer,
	})
}

// mapKindToHTTPStatus はエラー種別からHTTPステータスコードにマッピングする。
func mapKindToHTTPStatus(kind model.ErrorKind) int {
	switch kind {
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindInvalidRequest:
		return http.StatusBadRequest
	case model.KindAuth:
		return http.StatusUnauthorized
	case model.KindServer:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// parseIDParam はURLパスパラメータを数値IDとして解析する。
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter: " + name)
	}
	return id, nil
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Email: user.Email,
	}
}
