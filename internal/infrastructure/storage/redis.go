package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"mixmate/internal/infrastructure/config"
	"mixmate/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	recipesKeyPrefix = "savedRecipes:"
	profileKeyPrefix = "profile:"
	ageVerifiedField = "ageVerified"

	// 樂觀鎖衝突時的重試次數
	maxTxRetries = 5
)

// ErrConflict 多次重試後仍然寫入衝突
var ErrConflict = errors.New("concurrent update conflict")

// RedisStore 以 Redis 保存食譜與使用者設定
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 連線 Redis 並確認可用
func NewRedisStore(ctx context.Context, cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect redis %s: %w", cfg.Addr, err)
	}

	common.LogInfo("Redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient 使用既有的 client
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(kind, userID string) string {
	k := kind + userID
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

// Load 讀取使用者的食譜清單
func (s *RedisStore) Load(ctx context.Context, userID string) ([]common.SavedRecipe, error) {
	data, err := s.client.Get(ctx, s.key(recipesKeyPrefix, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []common.SavedRecipe{}, nil
		}
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	return decodeRecipes(data)
}

// Update 以 WATCH/MULTI 讀改寫食譜清單
func (s *RedisStore) Update(ctx context.Context, userID string, fn func([]common.SavedRecipe) ([]common.SavedRecipe, error)) error {
	key := s.key(recipesKeyPrefix, userID)

	txf := func(tx *redis.Tx) error {
		list := []common.SavedRecipe{}
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to load recipes: %w", err)
		default:
			if list, err = decodeRecipes(data); err != nil {
				return err
			}
		}

		next, err := fn(list)
		if err != nil {
			return err
		}

		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode recipes: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			common.LogDebug("Recipe update conflict, retrying", zap.String("user_id", userID), zap.Int("attempt", i+1))
			continue
		}
		return err
	}
	return ErrConflict
}

// SetAgeVerified 記錄年齡驗證狀態
func (s *RedisStore) SetAgeVerified(ctx context.Context, userID string, verified bool) error {
	return s.client.HSet(ctx, s.key(profileKeyPrefix, userID), ageVerifiedField, strconv.FormatBool(verified)).Err()
}

// AgeVerified 讀取年齡驗證狀態，未設定時為 false
func (s *RedisStore) AgeVerified(ctx context.Context, userID string) (bool, error) {
	val, err := s.client.HGet(ctx, s.key(profileKeyPrefix, userID), ageVerifiedField).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	verified, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", ageVerifiedField, val, err)
	}
	return verified, nil
}

// DeleteUser 一次刪除使用者設定與食譜清單
func (s *RedisStore) DeleteUser(ctx context.Context, userID string) error {
	keys := []string{s.key(profileKeyPrefix, userID), s.key(recipesKeyPrefix, userID)}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete user data: %w", err)
	}
	return nil
}

// Ping 檢查連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeRecipes(data []byte) ([]common.SavedRecipe, error) {
	var list []common.SavedRecipe
	if err := common.ParseJSONBytes(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	if list == nil {
		list = []common.SavedRecipe{}
	}
	return list, nil
}
