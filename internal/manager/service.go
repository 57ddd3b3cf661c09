// Package manager はTodo担当者（コラボレーター）割り当てのドメインロジックを提供する。
//
// 担当者の登録・削除は所有権と参照整合性の検証を伴うガード付き操作であり、
// 検証と書き込みを単一トランザクションで実行する。
package manager

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// Service は担当者割り当てのサービス層。
type Service struct {
	txRunner    repository.TxRunner
	todoRepo    repository.TodoRepository
	managerRepo repository.ManagerRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	txRunner repository.TxRunner,
	todoRepo repository.TodoRepository,
	managerRepo repository.ManagerRepository,
) *Service {
	return &Service{
		txRunner:    txRunner,
		todoRepo:    todoRepo,
		managerRepo: managerRepo,
	}
}

// SaveManager は指定Todoに担当者を登録する。
//
// 検証順序:
//  1. Todoが存在すること
//  2. Todoの所有ユーザーがNULLでないこと（整合性違反の検出）
//  3. 登録対象ユーザーが存在すること
//  4. 登録対象がTodo所有者自身でないこと
//
// 操作ユーザー（authUser）がTodo所有者かどうかは意図的に検証しない。
// 削除側（DeleteManager）だけが所有者チェックを持つ非対称な設計であり、
// これは元の業務仕様をそのまま保存している。
func (s *Service) SaveManager(ctx context.Context, authUser model.AuthUser, todoID, targetUserID int64) (*model.ManagerWithUser, error) {
	var result *model.ManagerWithUser

	err := s.txRunner.InTx(ctx, func(r repository.Repos) error {
		todo, err := r.Todos.FindByID(ctx, todoID)
		if err != nil {
			return fmt.Errorf("failed to find todo: %w", err)
		}
		if todo == nil {
			return model.NewTodoNotFoundError()
		}
		if todo.UserID == nil {
			return model.NewTodoOwnerInvalidError()
		}

		target, err := r.Users.FindByID(ctx, targetUserID)
		if err != nil {
			return fmt.Errorf("failed to find target user: %w", err)
		}
		if target == nil {
			return model.NewTargetUserNotFoundError()
		}

		if target.ID == *todo.UserID {
			return model.NewSelfManagementError()
		}

		m := &model.Manager{
			UserID: target.ID,
			TodoID: todo.ID,
		}
		if err := r.Managers.Create(ctx, m); err != nil {
			return err
		}

		result = &model.ManagerWithUser{
			Manager: *m,
			User:    model.User{ID: target.ID, Email: target.Email},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("manager assigned",
		slog.Int64("todo_id", todoID),
		slog.Int64("manager_id", result.ID),
		slog.Int64("target_user_id", targetUserID),
		slog.Int64("acting_user_id", authUser.ID),
	)

	return result, nil
}

// GetManagers は指定Todoの担当者一覧を担当ユーザー付きで返す。
// 並び順はmanager id昇順。担当者がいない場合は空スライスを返す。
func (s *Service) GetManagers(ctx context.Context, todoID int64) ([]model.ManagerWithUser, error) {
	todo, err := s.todoRepo.FindByID(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError()
	}

	managers, err := s.managerRepo.ListByTodoIDWithUser(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	return managers, nil
}

// DeleteManager は指定Todoから担当者割り当てを削除する。
//
// 5段階の検証を順に行い、前段が失敗した場合は後段を評価しない:
//  1. Todoが存在すること
//  2. Todoの所有ユーザーがNULLでないこと
//  3. 操作ユーザーがTodoの作成者であること
//  4. Managerが存在すること
//  5. ManagerがURLパスのTodoに属していること
//
// すべて通過した場合にのみ削除する。
func (s *Service) DeleteManager(ctx context.Context, authUser model.AuthUser, todoID, managerID int64) error {
	err := s.txRunner.InTx(ctx, func(r repository.Repos) error {
		todo, err := r.Todos.FindByID(ctx, todoID)
		if err != nil {
			return fmt.Errorf("failed to find todo: %w", err)
		}
		if todo == nil {
			return model.NewTodoNotFoundError()
		}
		if todo.UserID == nil {
			return model.NewTodoOwnerInvalidError()
		}
		if authUser.ID != *todo.UserID {
			return model.NewNotTodoOwnerError()
		}

		m, err := r.Managers.FindByID(ctx, managerID)
		if err != nil {
			return fmt.Errorf("failed to find manager: %w", err)
		}
		if m == nil {
			return model.NewManagerNotFoundError()
		}
		if m.TodoID != todo.ID {
			return model.NewManagerMismatchError()
		}

		return r.Managers.Delete(ctx, m.ID)
	})
	if err != nil {
		return err
	}

	slog.Info("manager removed",
		slog.Int64("todo_id", todoID),
		slog.Int64("manager_id", managerID),
		slog.Int64("acting_user_id", authUser.ID),
	)

	return nil
}
