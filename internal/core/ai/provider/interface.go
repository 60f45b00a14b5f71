package provider

import (
	"context"
	"time"
)

// Provider 定義文字生成提供者介面
type Provider interface {
	// Complete 送出 prompt 並取得完整回應文字
	Complete(ctx context.Context, prompt string) (string, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// GetTimeout 獲取請求超時時間
	GetTimeout() time.Duration

	// Close 關閉提供者連接
	Close() error
}

// Func 把一般函式包裝成 Provider
type Func func(ctx context.Context, prompt string) (string, error)

// Complete 實現 Provider
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// GetModel 實現 Provider
func (f Func) GetModel() string { return "func" }

// GetTimeout 實現 Provider
func (f Func) GetTimeout() time.Duration { return 0 }

// Close 實現 Provider
func (f Func) Close() error { return nil }
