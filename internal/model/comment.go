// Package model はドメインモデルを定義する。
package model

import "time"

// Comment はTodoへのコメントを表す。
// 親Todoが存在する場合にのみ作成される。
type Comment struct {
	ID        int64
	Contents  string
	UserID    int64
	TodoID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentWithUser はCommentと投稿ユーザーをJOINして取得したモデル。
type CommentWithUser struct {
	Comment
	User User
}
