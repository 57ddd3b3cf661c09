// Package model はドメインモデルを定義する。
package model

import "time"

// Todo はタスク（一件の予定）を表す。
// 作成時に外部天気APIから取得した天気スナップショットを保持する。
// 所有ユーザーは作成時に確定し、以後変更されない。
type Todo struct {
	ID        int64
	Title     string
	Contents  string
	Weather   string
	UserID    *int64 // NULLの場合はデータ破損状態。アプリケーションは決してNULLを書き込まない。
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoWithUser はTodoと所有ユーザーをJOINして取得したモデル。
// 所有者カラムがNULLのレコードではUserがnilになる。
type TodoWithUser struct {
	Todo
	User *User
}
