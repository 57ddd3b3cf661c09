package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレートリミッターの設定。
type RateLimiterConfig struct {
	// GeneralRate は認証済みAPIに対するユーザーごとの秒間リクエスト許容数。
	GeneralRate rate.Limit
	// GeneralBurst は認証済みAPIのバーストサイズ。
	GeneralBurst int
	// SignupRate はサインアップAPIに対するIPごとの秒間リクエスト許容数。
	SignupRate rate.Limit
	// SignupBurst はサインアップAPIのバーストサイズ。
	SignupBurst int
	// CleanupInterval は未使用リミッターを回収する周期。
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig はデフォルトのレートリミッター設定を返す。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(2),
		GeneralBurst:    120,
		SignupRate:      rate.Limit(0.17),
		SignupBurst:     10,
		CleanupInterval: 3 * time.Minute,
	}
}

// limiterEntry はキーごとのリミッターと最終アクセス時刻を保持する。
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter はキー単位のトークンバケットレートリミッターを管理する。
// 認証済みAPIはユーザーID、サインアップAPIは接続元IPをキーとする。
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	general  map[string]*limiterEntry
	signup   map[string]*limiterEntry
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter はレートリミッターを生成し、クリーンアップループを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:  config,
		general: make(map[string]*limiterEntry),
		signup:  make(map[string]*limiterEntry),
		stopCh:  make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop はクリーンアップループを停止する。
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

// GeneralMiddleware は認証済みAPIに対するユーザー単位のレートリミットを適用する。
// 認証ミドルウェアの後段に配置すること。
func (rl *RateLimiter) GeneralMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authUser, err := AuthUserFromContext(r.Context())
		if err != nil {
			// 認証済みでないリクエストはIPでフォールバック
			rl.allowOrReject(w, r, next, rl.general, clientIP(r), rl.config.GeneralRate, rl.config.GeneralBurst)
			return
		}
		key := strconv.FormatInt(authUser.ID, 10)
		rl.allowOrReject(w, r, next, rl.general, key, rl.config.GeneralRate, rl.config.GeneralBurst)
	})
}

// SignupMiddleware はサインアップAPIに対する接続元IP単位のレートリミットを適用する。
func (rl *RateLimiter) SignupMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl.allowOrReject(w, r, next, rl.signup, clientIP(r), rl.config.SignupRate, rl.config.SignupBurst)
	})
}

func (rl *RateLimiter) allowOrReject(
	w http.ResponseWriter,
	r *http.Request,
	next http.Handler,
	limiters map[string]*limiterEntry,
	key string,
	limit rate.Limit,
	burst int,
) {
	limiter := rl.getOrCreate(limiters, key, limit, burst)
	if !limiter.Allow() {
		slog.Warn("rate limit exceeded",
			slog.String("key", key),
			slog.String("path", r.URL.Path),
		)
		writeRateLimitResponse(w, limit)
		return
	}
	next.ServeHTTP(w, r)
}

// getOrCreate はキーに対応するリミッターを取得する。存在しない場合は生成する。
func (rl *RateLimiter) getOrCreate(limiters map[string]*limiterEntry, key string, limit rate.Limit, burst int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(limit, burst),
		}
		limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// cleanupLoop は一定周期で未使用リミッターを回収する。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup はTTLを超過したリミッターエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := 2 * rl.config.CleanupInterval
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, entry := range rl.general {
		if now.Sub(entry.lastSeen) > ttl {
			delete(rl.general, key)
		}
	}
	for key, entry := range rl.signup {
		if now.Sub(entry.lastSeen) > ttl {
			delete(rl.signup, key)
		}
	}
}

// LimiterCount は保持中のリミッター数を返す。テストと監視用。
func (rl *RateLimiter) LimiterCount() (general int, signup int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.general), len(rl.signup)
}

// clientIP は接続元IPアドレスを返す。RemoteAddrのみを信頼する。
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeRateLimitResponse は429レスポンスとRetry-Afterヘッダーを書き込む。
func writeRateLimitResponse(w http.ResponseWriter, limit rate.Limit) {
	retryAfter := 1
	if limit > 0 {
		retryAfter = int(math.Ceil(1 / float64(limit)))
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:    "RATE_LIMITED",
		Message: "too many requests",
		Kind:    "invalid_request",
	})
}
