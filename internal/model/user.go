// Package model はドメインモデルを定義する。
package model

import "time"

// UserRole はユーザーの権限区分を表す。
type UserRole string

const (
	// UserRoleUser は一般ユーザー権限。
	UserRoleUser UserRole = "USER"
	// UserRoleAdmin は管理者権限。
	UserRoleAdmin UserRole = "ADMIN"
)

// ParseUserRole は文字列をUserRoleに変換する。
// USER/ADMIN以外の値にはエラーを返す。
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case UserRoleUser:
		return UserRoleUser, nil
	case UserRoleAdmin:
		return UserRoleAdmin, nil
	default:
		return "", NewInvalidUserRoleError(s)
	}
}

// User はサービス利用ユーザーを表す。
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthUser はリクエストごとに認証ミドルウェアが注入する認証済みプリンシパル。
// 永続化されず、常に値渡しでサービス層に引き渡される。
// リクエストボディ由来の値を信用してはならない。
type AuthUser struct {
	ID    int64
	Email string
	Role  UserRole
}
