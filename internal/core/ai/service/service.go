package service

import (
	"context"
	"errors"
	"strings"

	"mixmate/internal/core/ai/cache"
	"mixmate/internal/core/ai/provider"
	"mixmate/internal/core/ai/queue"
	"mixmate/internal/pkg/common"

	"go.uber.org/zap"
)

// Response AI 回應結構
type Response struct {
	Content  string
	CacheHit bool
}

// Service AI 服務
type Service struct {
	provider     provider.Provider
	cacheManager *cache.CacheManager
	queue        *queue.Manager
}

// NewService 創建 AI 服務，cacheManager 與 queue 可為 nil
func NewService(p provider.Provider, cacheManager *cache.CacheManager, q *queue.Manager) *Service {
	return &Service{
		provider:     p,
		cacheManager: cacheManager,
		queue:        q,
	}
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string) (*Response, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, common.ErrInvalidRequest.WithMessage("Prompt is required")
	}

	// 檢查緩存
	key := cache.Key(prompt)
	if val, ok := s.cacheManager.Get(ctx, key); ok {
		return &Response{Content: val, CacheHit: true}, nil
	}

	content, err := s.complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, common.ErrQueueFull) {
			return nil, err
		}
		return nil, common.ErrGenerationFailed.Wrap(err)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.ErrGenerationFailed.WithMessage("Model returned an empty response")
	}

	if s.cacheManager != nil {
		if err := s.cacheManager.Set(ctx, key, content); err != nil {
			common.LogWarn("Failed to cache completion", zap.Error(err))
		}
	}

	return &Response{Content: content}, nil
}

// complete 透過隊列送出請求，未設定隊列時直接呼叫提供者
func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	if s.queue != nil {
		return s.queue.Submit(ctx, prompt)
	}
	return s.provider.Complete(ctx, prompt)
}

// Model 回傳提供者模型名稱
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// CacheStats 回傳緩存統計
func (s *Service) CacheStats() cache.Stats {
	return s.cacheManager.GetStats()
}

// QueueStatus 回傳隊列狀態，未設定隊列時為零值
func (s *Service) QueueStatus() queue.Status {
	if s.queue == nil {
		return queue.Status{}
	}
	return s.queue.Status()
}
