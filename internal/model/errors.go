// Package model はドメインモデルを定義する。
package model

import "fmt"

// ErrorKind はエラーの種別を表す。
// HTTPステータスへのマッピングはhandler層が行う。
type ErrorKind string

const (
	// KindNotFound は参照先エンティティが存在しないことを示す。404に対応。
	KindNotFound ErrorKind = "not_found"
	// KindInvalidRequest はバリデーション違反・業務ルール違反・権限不一致を示す。400に対応。
	KindInvalidRequest ErrorKind = "invalid_request"
	// KindAuth は資格情報の不一致を示す。KindInvalidRequestとは別カテゴリで401に対応。
	KindAuth ErrorKind = "auth"
	// KindServer は外部依存の失敗など呼び出し側に非がない失敗を示す。500に対応。
	KindServer ErrorKind = "server"
)

// APIError は統一エラーフォーマットを表す。
// サービス層で生成され、handler層でHTTPステータスにマッピングされる。
type APIError struct {
	Code    string    // エラーコード
	Message string    // エラーメッセージ
	Kind    ErrorKind // エラー種別
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeTodoNotFound       = "TODO_NOT_FOUND"
	ErrCodeTodoOwnerInvalid   = "TODO_OWNER_INVALID"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeTargetUserNotFound = "TARGET_USER_NOT_FOUND"
	ErrCodeManagerNotFound    = "MANAGER_NOT_FOUND"
	ErrCodeSelfManagement     = "SELF_MANAGEMENT"
	ErrCodeManagerMismatch    = "MANAGER_TODO_MISMATCH"
	ErrCodeNotTodoOwner       = "NOT_TODO_OWNER"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeUserNotRegistered  = "USER_NOT_REGISTERED"
	ErrCodeWrongPassword      = "WRONG_PASSWORD"
	ErrCodePasswordMismatch   = "PASSWORD_MISMATCH"
	ErrCodeSamePassword       = "SAME_PASSWORD"
	ErrCodeInvalidUserRole    = "INVALID_USER_ROLE"
	ErrCodeWeatherUnavailable = "WEATHER_UNAVAILABLE"
)

// NewTodoNotFoundError はTodo未検出エラーを生成する。
func NewTodoNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeTodoNotFound,
		Message: "Todo not found",
		Kind:    KindNotFound,
	}
}

// NewTodoOwnerInvalidError は所有ユーザーがNULLのTodoに対する操作エラーを生成する。
// 永続化済みのTodoが所有者を持たないのはデータ整合性違反であり、
// 未検出（KindNotFound）とは区別する。
func NewTodoOwnerInvalidError() *APIError {
	return &APIError{
		Code:    ErrCodeTodoOwnerInvalid,
		Message: "owning user is invalid",
		Kind:    KindInvalidRequest,
	}
}

// NewCommentParentNotFoundError はコメント作成時に親Todoが存在しない場合のエラーを生成する。
// 元の業務設計に合わせ、未検出ではなくリクエスト不正として扱う。
func NewCommentParentNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeTodoNotFound,
		Message: "Todo not found",
		Kind:    KindInvalidRequest,
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
		Kind:    KindNotFound,
	}
}

// NewTargetUserNotFoundError は担当者として登録しようとしたユーザーの未検出エラーを生成する。
func NewTargetUserNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeTargetUserNotFound,
		Message: "target manager user not found",
		Kind:    KindNotFound,
	}
}

// NewManagerNotFoundError はManager未検出エラーを生成する。
func NewManagerNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeManagerNotFound,
		Message: "Manager not found",
		Kind:    KindNotFound,
	}
}

// NewSelfManagementError はTodo作成者が自分自身を担当者に登録しようとした場合のエラーを生成する。
func NewSelfManagementError() *APIError {
	return &APIError{
		Code:    ErrCodeSelfManagement,
		Message: "owner cannot appoint self as manager",
		Kind:    KindInvalidRequest,
	}
}

// NewManagerMismatchError はManagerがURLパスのTodoに属していない場合のエラーを生成する。
func NewManagerMismatchError() *APIError {
	return &APIError{
		Code:    ErrCodeManagerMismatch,
		Message: "manager does not belong to this todo",
		Kind:    KindInvalidRequest,
	}
}

// NewNotTodoOwnerError は操作ユーザーがTodoの作成者でない場合の認可エラーを生成する。
func NewNotTodoOwnerError() *APIError {
	return &APIError{
		Code:    ErrCodeNotTodoOwner,
		Message: "acting user did not create this todo",
		Kind:    KindInvalidRequest,
	}
}

// NewEmailTakenError は登録済みメールアドレスでのサインアップエラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:    ErrCodeEmailTaken,
		Message: "email is already registered",
		Kind:    KindInvalidRequest,
	}
}

// NewUserNotRegisteredError は未登録メールアドレスでのサインインエラーを生成する。
func NewUserNotRegisteredError() *APIError {
	return &APIError{
		Code:    ErrCodeUserNotRegistered,
		Message: "user is not registered",
		Kind:    KindInvalidRequest,
	}
}

// NewWrongPasswordError はパスワード不一致エラーを生成する。
// バリデーション違反とは別の認証カテゴリとして扱う。
func NewWrongPasswordError() *APIError {
	return &APIError{
		Code:    ErrCodeWrongPassword,
		Message: "wrong password",
		Kind:    KindAuth,
	}
}

// NewPasswordMismatchError はパスワード変更時に現パスワードが一致しない場合のエラーを生成する。
// サインインの資格情報不一致（KindAuth）とは異なり、業務ルール違反として扱う。
func NewPasswordMismatchError() *APIError {
	return &APIError{
		Code:    ErrCodePasswordMismatch,
		Message: "wrong password",
		Kind:    KindInvalidRequest,
	}
}

// NewSamePasswordError は新旧パスワードが同一の場合のエラーを生成する。
func NewSamePasswordError() *APIError {
	return &APIError{
		Code:    ErrCodeSamePassword,
		Message: "new password cannot equal old password",
		Kind:    KindInvalidRequest,
	}
}

// NewInvalidUserRoleError は未定義の権限区分が指定された場合のエラーを生成する。
func NewInvalidUserRoleError(role string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidUserRole,
		Message: fmt.Sprintf("invalid user role: %s", role),
		Kind:    KindInvalidRequest,
	}
}

// NewWeatherUnavailableError は天気APIの取得失敗エラーを生成する。
// 外部依存の一時障害は呼び出し側の誤りではないためサーバー系として扱う。
func NewWeatherUnavailableError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeWeatherUnavailable,
		Message: fmt.Sprintf("failed to fetch today's weather: %s", reason),
		Kind:    KindServer,
	}
}
