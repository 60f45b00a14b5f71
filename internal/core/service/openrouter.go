package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mixmate/internal/infrastructure/config"
	"mixmate/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// OpenRouterService OpenRouter 服務
type OpenRouterService struct {
	config *config.OpenRouterConfig
	client *resty.Client
}

// chatMessage 對話消息
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest chat completions 請求
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

// chatResponse chat completions 響應
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// NewOpenRouterService 創建 OpenRouter 服務
func NewOpenRouterService(cfg *config.OpenRouterConfig) *OpenRouterService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://mixmate.app").
		SetHeader("X-Title", "MixMate")

	return &OpenRouterService{
		config: cfg,
		client: client,
	}
}

// Complete 生成回應
func (s *OpenRouterService) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: s.config.MaxTokens,
	}

	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", req.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	start := time.Now()
	var result chatResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		common.LogAICall(req.Model, time.Since(start), err)
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("OpenRouter API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 500))
		common.LogAICall(req.Model, time.Since(start), err)
		return "", err
	}

	if len(result.Choices) == 0 {
		err := fmt.Errorf("no choices in OpenRouter response")
		common.LogAICall(req.Model, time.Since(start), err)
		return "", err
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		err := fmt.Errorf("empty content in OpenRouter response")
		common.LogAICall(req.Model, time.Since(start), err)
		return "", err
	}

	common.LogAICall(req.Model, time.Since(start), nil)
	common.LogDebug("OpenRouter usage",
		zap.Int("prompt_tokens", result.Usage.PromptTokens),
		zap.Int("completion_tokens", result.Usage.CompletionTokens),
		zap.Int("content_length", len(content)),
	)

	return content, nil
}

// GetModel 獲取模型名稱
func (s *OpenRouterService) GetModel() string {
	return s.config.Model
}

// GetTimeout 獲取超時時間
func (s *OpenRouterService) GetTimeout() time.Duration {
	return s.config.Timeout
}

// Close 關閉客戶端
func (s *OpenRouterService) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}

// truncate 截斷過長的錯誤內容
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
