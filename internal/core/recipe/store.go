package recipe

import (
	"context"
	"errors"

	"mixmate/internal/core/sections"
	"mixmate/internal/pkg/common"
)

// RecipeStore 使用者食譜清單的儲存
type RecipeStore interface {
	// Load 讀取使用者的全部食譜，不存在時回傳空切片
	Load(ctx context.Context, userID string) ([]common.SavedRecipe, error)
	// Update 以 fn 改寫食譜清單並原子寫回，fn 回傳錯誤時不寫入
	Update(ctx context.Context, userID string, fn func([]common.SavedRecipe) ([]common.SavedRecipe, error)) error
}

// ProfileStore 使用者設定的儲存
type ProfileStore interface {
	SetAgeVerified(ctx context.Context, userID string, verified bool) error
	AgeVerified(ctx context.Context, userID string) (bool, error)
	// DeleteUser 移除使用者設定與全部食譜
	DeleteUser(ctx context.Context, userID string) error
}

// FromSections 把擷取結果轉成食譜紀錄
func FromSections(name string, secs sections.SectionMap) common.SavedRecipe {
	return common.SavedRecipe{
		Name:         name,
		Introduction: secs[sections.TitleIntroduction],
		Ingredients:  secs[sections.TitleIngredients],
		Steps:        secs[sections.TitleSteps],
		Precautions:  secs[sections.TitlePrecautions],
		BonusTips:    secs[sections.TitleBonus],
	}
}

// storageError 保留業務錯誤，其餘視為儲存失敗
func storageError(err error) error {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return err
	}
	return common.ErrSaveFailed.Wrap(err)
}
