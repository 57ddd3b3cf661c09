// Package model はドメインモデルを定義する。
package model

import "time"

// Manager はTodoの担当者（コラボレーター）割り当てを表す。
// ユーザーとTodoを参照する弱エンティティで、どちらも所有しない。
type Manager struct {
	ID        int64
	UserID    int64
	TodoID    int64
	CreatedAt time.Time
}

// ManagerWithUser はManagerと担当ユーザーをJOINして取得したモデル。
type ManagerWithUser struct {
	Manager
	User User
}
