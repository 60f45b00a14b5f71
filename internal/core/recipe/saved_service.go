package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mixmate/internal/core/sections"
	"mixmate/internal/pkg/common"

	"go.uber.org/zap"
)

// SavedService 已儲存食譜服務
type SavedService struct {
	store RecipeStore
	now   func() time.Time
	newID func() string
}

// NewSavedService 創建已儲存食譜服務
func NewSavedService(store RecipeStore) *SavedService {
	return &SavedService{
		store: store,
		now:   time.Now,
		newID: common.GenerateUUID,
	}
}

// Save 儲存一份食譜，name 為空時命名為 "Recipe N"
func (s *SavedService) Save(ctx context.Context, userID, name string, secs sections.SectionMap) (*common.SavedRecipe, error) {
	rec := FromSections(strings.TrimSpace(name), secs)
	rec.ID = s.newID()
	rec.CreatedAt = s.now().UTC()

	// fn 可能因衝突重試，名稱每次依當下清單計算
	var saved common.SavedRecipe
	err := s.store.Update(ctx, userID, func(list []common.SavedRecipe) ([]common.SavedRecipe, error) {
		saved = rec
		if saved.Name == "" {
			saved.Name = fmt.Sprintf("Recipe %d", len(list)+1)
		}
		return append(list, saved), nil
	})
	if err != nil {
		common.LogError("Failed to save recipe", zap.String("user_id", userID), zap.Error(err))
		return nil, storageError(err)
	}

	common.LogInfo("Recipe saved",
		zap.String("user_id", userID),
		zap.String("recipe_id", saved.ID),
		zap.String("name", saved.Name),
	)
	return &saved, nil
}

// List 列出使用者的食譜，依儲存順序
func (s *SavedService) List(ctx context.Context, userID string) ([]common.SavedRecipe, error) {
	list, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, storageError(err)
	}
	if list == nil {
		list = []common.SavedRecipe{}
	}
	return list, nil
}

// Get 取得單一食譜
func (s *SavedService) Get(ctx context.Context, userID, id string) (*common.SavedRecipe, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexOf(list, id)
	if i < 0 {
		return nil, common.ErrRecipeNotFound
	}
	return &list[i], nil
}

// Rename 重新命名食譜
func (s *SavedService) Rename(ctx context.Context, userID, id, name string) (*common.SavedRecipe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrInvalidRequest.WithMessage("recipe name is required")
	}

	var renamed common.SavedRecipe
	err := s.store.Update(ctx, userID, func(list []common.SavedRecipe) ([]common.SavedRecipe, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, common.ErrRecipeNotFound
		}
		list[i].Name = name
		renamed = list[i]
		return list, nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	return &renamed, nil
}

// Delete 刪除食譜
func (s *SavedService) Delete(ctx context.Context, userID, id string) error {
	err := s.store.Update(ctx, userID, func(list []common.SavedRecipe) ([]common.SavedRecipe, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, common.ErrRecipeNotFound
		}
		return append(list[:i], list[i+1:]...), nil
	})
	if err != nil {
		return storageError(err)
	}

	common.LogInfo("Recipe deleted", zap.String("user_id", userID), zap.String("recipe_id", id))
	return nil
}

func indexOf(list []common.SavedRecipe, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
