// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はTodoおよびコメントのユーザー入力コンテンツを
// サニタイズし、XSS攻撃などのセキュリティリスクからユーザーを保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグのみを通過させる。
package security

import "github.com/microcosm-cc/bluemonday"

// ContentSanitizerService はユーザー入力コンテンツのサニタイズ機能の
// インターフェースを定義する。Todo本文とコメント本文の保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize はコンテンツをサニタイズして安全な文字列を返す。
	// 許可タグ（p, br, ul, ol, li, blockquote, pre, code, strong, em）のみを
	// 通過させ、script, iframe, styleタグおよびon*イベント属性を除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

var _ ContentSanitizerService = (*contentSanitizer)(nil)

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// Todoやコメントはリッチテキストを前提としないため、リンクや画像は許可せず、
// 整形系のインラインタグのみを許可する。script, iframe, style等は
// 許可リストに含めないことで自動的に除去される。
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	return &contentSanitizer{
		policy: p,
	}
}

// Sanitize はコンテンツをサニタイズして安全な文字列を返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
