// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/todoman/internal/auth"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// Service はユーザー管理のサービス層。
// ユーザー参照、パスワード変更、管理者による権限変更を提供する。
type Service struct {
	txRunner repository.TxRunner
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	txRunner repository.TxRunner,
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
) *Service {
	return &Service{
		txRunner: txRunner,
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// GetUser は指定IDのユーザーを返す。
func (s *Service) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// ChangePassword は本人によるパスワード変更を実行する。
//
// 検証順序:
//  1. ユーザーが存在すること
//  2. 新パスワードが保存済みハッシュと一致しないこと（新旧同一の禁止）
//  3. 旧パスワードが保存済みハッシュと一致すること
//
// 検証と更新は同一トランザクションで実行する。
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	err := s.txRunner.InTx(ctx, func(r repository.Repos) error {
		user, err := r.Users.FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		if user == nil {
			return model.NewUserNotFoundError()
		}

		if s.hasher.Matches(newPassword, user.PasswordHash) {
			return model.NewSamePasswordError()
		}
		if !s.hasher.Matches(oldPassword, user.PasswordHash) {
			return model.NewPasswordMismatchError()
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("failed to hash new password: %w", err)
		}
		return r.Users.UpdatePasswordHash(ctx, userID, hash)
	})
	if err != nil {
		return err
	}

	slog.Info("password changed", slog.Int64("user_id", userID))
	return nil
}

// ChangeUserRole は管理者によるユーザー権限の変更を実行する。
// 未定義の権限区分が指定された場合はエラーを返す。
func (s *Service) ChangeUserRole(ctx context.Context, userID int64, role string) error {
	err := s.txRunner.InTx(ctx, func(r repository.Repos) error {
		user, err := r.Users.FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		if user == nil {
			return model.NewUserNotFoundError()
		}

		parsed, err := model.ParseUserRole(role)
		if err != nil {
			return err
		}
		return r.Users.UpdateRole(ctx, userID, parsed)
	})
	if err != nil {
		return err
	}

	slog.Info("user role changed",
		slog.Int64("user_id", userID),
		slog.String("role", role),
	)
	return nil
}
