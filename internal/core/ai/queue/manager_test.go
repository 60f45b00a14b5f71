package queue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"mixmate/internal/infrastructure/config"
	"mixmate/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Submit(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 2, MaxSize: 10}, func(ctx context.Context, prompt string) (string, error) {
		return strings.ToUpper(prompt), nil
	})
	defer m.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := m.Submit(context.Background(), "mix")
			assert.NoError(t, err)
			assert.Equal(t, "MIX", out)
		}()
	}
	wg.Wait()

	status := m.Status()
	assert.Equal(t, int64(8), status.ProcessedCount)
	assert.Equal(t, 2, status.Workers)
	assert.Equal(t, 10, status.MaxQueueSize)
}

func TestManager_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1}, func(ctx context.Context, prompt string) (string, error) {
		return "", boom
	})
	defer m.Close()

	_, err := m.Submit(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestManager_Full(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1}, func(ctx context.Context, prompt string) (string, error) {
		started <- struct{}{}
		<-release
		return prompt, nil
	})
	defer m.Close()

	// 第一個請求佔住 worker
	go func() { _, _ = m.Submit(context.Background(), "first") }()
	<-started

	// 第二個請求佔住隊列
	go func() { _, _ = m.Submit(context.Background(), "second") }()
	require.Eventually(t, func() bool { return m.Status().QueueLength == 1 }, time.Second, 5*time.Millisecond)

	_, err := m.Submit(context.Background(), "third")
	assert.ErrorIs(t, err, common.ErrQueueFull)

	close(release)
}

func TestManager_ContextCancelled(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1}, func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := m.Submit(ctx, "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestManager_Closed(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1}, func(ctx context.Context, prompt string) (string, error) {
		return prompt, nil
	})
	m.Close()
	m.Close()

	_, err := m.Submit(context.Background(), "x")
	assert.ErrorIs(t, err, ErrClosed)
}
