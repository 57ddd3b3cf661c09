// Package comment はTodoコメントのドメインロジックを提供する。
package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
	"github.com/hitoshi/todoman/internal/security"
)

// Service はコメント管理のサービス層。
type Service struct {
	txRunner    repository.TxRunner
	commentRepo repository.CommentRepository
	sanitizer   security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	txRunner repository.TxRunner,
	commentRepo repository.CommentRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		txRunner:    txRunner,
		commentRepo: commentRepo,
		sanitizer:   sanitizer,
	}
}

// SaveComment は指定Todoへのコメントを作成する。
// 親Todoの存在確認は永続化より前に行い、孤児コメントの発生を防ぐ。
// 存在確認と挿入は同一トランザクションで実行する。
func (s *Service) SaveComment(ctx context.Context, authUser model.AuthUser, todoID int64, contents string) (*model.CommentWithUser, error) {
	comment := &model.Comment{
		Contents: s.sanitizer.Sanitize(contents),
		UserID:   authUser.ID,
		TodoID:   todoID,
	}

	err := s.txRunner.InTx(ctx, func(r repository.Repos) error {
		todo, err := r.Todos.FindByID(ctx, todoID)
		if err != nil {
			return fmt.Errorf("failed to find todo: %w", err)
		}
		if todo == nil {
			return model.NewCommentParentNotFoundError()
		}
		return r.Comments.Create(ctx, comment)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("comment created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("todo_id", todoID),
		slog.Int64("user_id", authUser.ID),
	)

	return &model.CommentWithUser{
		Comment: *comment,
		User:    model.User{ID: authUser.ID, Email: authUser.Email},
	}, nil
}

// GetComments は指定Todoのコメント一覧を投稿ユーザー付きで返す。
// コメントが無いTodoに対してはエラーではなく空スライスを返す。
func (s *Service) GetComments(ctx context.Context, todoID int64) ([]model.CommentWithUser, error) {
	comments, err := s.commentRepo.ListByTodoIDWithUser(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment は管理者によるコメント削除を実行する。
// 対象が既に存在しない場合も成功として扱う。
func (s *Service) DeleteComment(ctx context.Context, commentID int64) error {
	err := s.txRunner.InTx(ctx, func(r repository.Repos) error {
		return r.Comments.Delete(ctx, commentID)
	})
	if err != nil {
		return err
	}

	slog.Info("comment deleted by admin", slog.Int64("comment_id", commentID))
	return nil
}
