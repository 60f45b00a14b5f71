package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"mixmate/internal/infrastructure/config"
	"mixmate/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrClosed 隊列已關閉
var ErrClosed = errors.New("queue manager is closed")

// Handler 處理單一 prompt
type Handler func(ctx context.Context, prompt string) (string, error)

// Request 隊列請求
type Request struct {
	Context context.Context
	Prompt  string
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Content string
	Error   error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 隊列管理器，以固定數量的 worker 處理生成請求
type Manager struct {
	config    *config.QueueConfig
	queue     chan *Request
	done      chan struct{}
	handler   Handler
	processed int64
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewManager 創建新的隊列管理器並啟動 worker
func NewManager(cfg *config.QueueConfig, handler Handler) *Manager {
	m := &Manager{
		config:  cfg,
		queue:   make(chan *Request, cfg.MaxSize),
		done:    make(chan struct{}),
		handler: handler,
	}

	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("生成隊列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

// worker 持續處理隊列中的請求
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	for {
		select {
		case req := <-m.queue:
			m.process(id, req)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) process(id int, req *Request) {
	// 請求方已放棄時直接略過
	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		return
	}

	content, err := m.handler(req.Context, req.Prompt)
	atomic.AddInt64(&m.processed, 1)
	if err != nil {
		common.LogDebug("Queue job failed", zap.Int("worker", id), zap.Error(err))
	}
	req.Result <- Result{Content: content, Error: err}
}

// Submit 將請求加入隊列並等待結果
func (m *Manager) Submit(ctx context.Context, prompt string) (string, error) {
	req := &Request{
		Context: ctx,
		Prompt:  prompt,
		Result:  make(chan Result, 1),
	}

	// 加入隊列
	select {
	case <-m.done:
		return "", ErrClosed
	default:
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
	case <-ctx.Done():
		return "", ctx.Err()
	case <-m.done:
		return "", ErrClosed
	default:
		return "", common.ErrQueueFull
	}

	select {
	case res := <-req.Result:
		return res.Content, res.Error
	case <-ctx.Done():
		return "", ctx.Err()
	case <-m.done:
		return "", ErrClosed
	}
}

// Status 獲取隊列狀態
func (m *Manager) Status() Status {
	return Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止所有 worker
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}
