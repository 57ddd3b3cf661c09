// Package weather は外部天気APIのクライアントを提供する。
// Todo作成時の天気スナップショット取得に使用される。
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/todoman/internal/metrics"
)

// Service は天気スナップショット取得のインターフェース。
type Service interface {
	// GetTodayWeather は今日の日付に対応する天気文字列を返す。
	// APIの失敗・該当データなしはエラーを返す（呼び出し側がサーバー系エラーに変換する）。
	GetTodayWeather(ctx context.Context) (string, error)
}

// entry は天気APIのレスポンス1件を表す。
// dateは "MM-dd" 形式（例: "01-30"）。
type entry struct {
	Date    string `json:"date"`
	Weather string `json:"weather"`
}

// Client は天気APIのクライアント。
// エンドポイントは全日付分の天気を配列で返し、クライアント側で今日の分を選ぶ。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    metrics.MetricsCollector
	endpoint   string
	now        func() time.Time // テスト用に現在時刻を差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, collector metrics.MetricsCollector, endpoint string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		metrics:    collector,
		endpoint:   endpoint,
		now:        time.Now,
	}
}

// GetTodayWeather は天気APIから全件を取得し、今日の日付に一致する天気を返す。
func (c *Client) GetTodayWeather(ctx context.Context) (string, error) {
	start := time.Now()
	w, err := c.fetchToday(ctx)
	c.metrics.RecordWeatherFetchLatency(time.Since(start))
	if err != nil {
		c.metrics.RecordWeatherFetchFailure(failureReason(err))
		return "", err
	}
	c.metrics.RecordWeatherFetchSuccess()
	return w, nil
}

func (c *Client) fetchToday(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call weather API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read weather response: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return "", fmt.Errorf("failed to parse weather response: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("weather API returned no data")
	}

	today := c.now().Format("01-02")
	for _, e := range entries {
		if e.Date == today {
			return e.Weather, nil
		}
	}

	c.logger.Warn("no weather entry for today",
		slog.String("today", today),
		slog.Int("entries", len(entries)),
	)
	return "", fmt.Errorf("no weather data for today: %s", today)
}

// failureReason はメトリクスのラベル用に失敗理由を大まかに分類する。
func failureReason(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "returned status"):
		return "http_status"
	case strings.Contains(msg, "parse"):
		return "parse"
	case strings.Contains(msg, "no weather data") || strings.Contains(msg, "no data"):
		return "no_match"
	default:
		return "network"
	}
}

// compile-time interface check
var _ Service = (*Client)(nil)
