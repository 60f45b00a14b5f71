package recipe

import (
	"context"

	"mixmate/internal/pkg/common"

	"go.uber.org/zap"
)

// ProfileService 使用者年齡驗證
type ProfileService struct {
	store ProfileStore
}

// NewProfileService 創建使用者設定服務
func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// SetAgeVerified 記錄使用者是否已達法定飲酒年齡
func (s *ProfileService) SetAgeVerified(ctx context.Context, userID string, verified bool) error {
	if err := s.store.SetAgeVerified(ctx, userID, verified); err != nil {
		common.LogError("Failed to store age verification", zap.String("user_id", userID), zap.Error(err))
		return common.ErrSaveFailed.WithMessage("failed to store age verification").Wrap(err)
	}
	common.LogInfo("Age verification updated", zap.String("user_id", userID), zap.Bool("verified", verified))
	return nil
}

// DeleteAccount 刪除使用者設定與所有已儲存的食譜
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		common.LogError("Failed to delete account", zap.String("user_id", userID), zap.Error(err))
		return common.ErrSaveFailed.WithMessage("failed to delete account").Wrap(err)
	}
	common.LogInfo("Account deleted", zap.String("user_id", userID))
	return nil
}

// AgeVerified 查詢使用者是否通過年齡驗證，未設定時為 false
func (s *ProfileService) AgeVerified(ctx context.Context, userID string) (bool, error) {
	verified, err := s.store.AgeVerified(ctx, userID)
	if err != nil {
		return false, common.ErrServiceUnavailable.Wrap(err)
	}
	return verified, nil
}
