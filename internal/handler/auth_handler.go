package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"

	"github.com/hitoshi/todoman/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Signup は新規ユーザーを登録し、Bearerトークンを発行する。
	Signup(ctx context.Context, email, password string, role model.UserRole) (string, error)
	// Signin は資格情報を検証し、Bearerトークンを発行する。
	Signin(ctx context.Context, email, password string) (string, error)
}

// AuthHandler は認証のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// signupRequest はサインアップリクエストのボディ。
type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserRole string `json:"userRole"`
}

// signinRequest はサインインリクエストのボディ。
type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse はトークン発行レスポンス。トークンは "Bearer " 付きで返す。
type tokenResponse struct {
	BearerToken string `json:"bearerToken"`
}

// Signup はユーザー登録を処理する。
// POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}

	if req.Email == "" {
		writeInvalidRequest(w, "INVALID_EMAIL", "email must not be blank")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeInvalidRequest(w, "INVALID_EMAIL", "email is malformed")
		return
	}
	if req.Password == "" {
		writeInvalidRequest(w, "INVALID_PASSWORD", "password must not be blank")
		return
	}

	role, err := model.ParseUserRole(req.UserRole)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	token, err := h.service.Signup(r.Context(), req.Email, req.Password, role)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{BearerToken: token})
}

// Signin はサインインを処理する。
// POST /auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeInvalidRequest(w, "INVALID_REQUEST", "email and password must not be blank")
		return
	}

	token, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{BearerToken: token})
}
