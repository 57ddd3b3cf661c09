// Package auth はサインアップ・サインインとトークン発行のドメインロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	txRunner repository.TxRunner
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	metrics  metrics.MetricsCollector
}

// NewService はServiceを生成する。
func NewService(
	txRunner repository.TxRunner,
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		txRunner: txRunner,
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		metrics:  collector,
	}
}

// Signup は新規ユーザーを登録し、署名付きトークンを発行する。
// メールアドレスが登録済みの場合はエラーを返す。
// 重複確認と挿入は同一トランザクションで実行し、同時リクエストでの
// 二重登録を一意制約と合わせて防ぐ。
func (s *Service) Signup(ctx context.Context, email, password string, role model.UserRole) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	err = s.txRunner.InTx(ctx, func(r repository.Repos) error {
		exists, err := r.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			return model.NewEmailTakenError()
		}
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		return "", err
	}

	token, err := s.tokens.CreateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.RecordSignup()
	slog.Info("user signed up",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return token, nil
}

// Signin は資格情報を検証し、署名付きトークンを発行する。
// 未登録メールアドレスは業務ルール違反、パスワード不一致は
// 認証エラーとして区別される。
func (s *Service) Signin(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return "", model.NewUserNotRegisteredError()
	}

	if !s.hasher.Matches(password, user.PasswordHash) {
		return "", model.NewWrongPasswordError()
	}

	token, err := s.tokens.CreateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user signed in", slog.Int64("user_id", user.ID))

	return token, nil
}
