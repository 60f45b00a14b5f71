package recipe

import (
	"context"
	"time"

	"mixmate/internal/core/ai/service"
	"mixmate/internal/core/sections"
	"mixmate/internal/pkg/common"

	"go.uber.org/zap"
)

// DrinkService 飲品生成服務
type DrinkService struct {
	aiService *service.Service
	extractor *sections.Extractor
	profiles  *ProfileService
}

// NewDrinkService 創建飲品生成服務
func NewDrinkService(aiService *service.Service, extractor *sections.Extractor, profiles *ProfileService) *DrinkService {
	return &DrinkService{
		aiService: aiService,
		extractor: extractor,
		profiles:  profiles,
	}
}

// Generate 依表單生成飲品並切分章節
func (s *DrinkService) Generate(ctx context.Context, userID string, req *common.DrinkRequest) (*common.GenerationResult, error) {
	drinkType, err := common.ParseDrinkType(req.DrinkType)
	if err != nil {
		return nil, common.ErrInvalidRequest.WithMessage(err.Error())
	}

	// 調酒需先通過年齡驗證
	if drinkType.IsAlcoholic() {
		if err := s.checkAge(ctx, userID); err != nil {
			return nil, err
		}
	}

	prompt := BuildPrompt(drinkType, req, s.extractor.Titles())
	result, err := s.complete(ctx, prompt)
	if err != nil {
		common.LogError("Drink generation failed",
			zap.String("user_id", userID),
			zap.String("drink_type", string(drinkType)),
			zap.Error(err),
		)
		return nil, err
	}
	result.DrinkType = drinkType

	common.LogInfo("Drink generated",
		zap.String("user_id", userID),
		zap.String("drink_type", string(drinkType)),
		zap.String("tier", result.Tier),
		zap.Int("sections", len(result.Sections)),
		zap.Bool("cache_hit", result.CacheHit),
	)
	return result, nil
}

// Complete 以任意 prompt 取得回應並切分章節
func (s *DrinkService) Complete(ctx context.Context, prompt string) (*common.GenerationResult, error) {
	return s.complete(ctx, prompt)
}

// Extract 直接切分已有的文字
func (s *DrinkService) Extract(text string) sections.Result {
	return s.extractor.Extract(text)
}

func (s *DrinkService) complete(ctx context.Context, prompt string) (*common.GenerationResult, error) {
	start := time.Now()
	resp, err := s.aiService.ProcessRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// 只有成功且非空的回應才進行切分
	extracted := s.extractor.Extract(resp.Content)
	common.LogDebug("Completion segmented",
		zap.Duration("duration", time.Since(start)),
		zap.String("tier", extracted.Tier.String()),
		zap.Strings("keyword_filled", extracted.KeywordFilled),
		zap.Bool("conclusion_merged", extracted.ConclusionMerged),
	)

	return &common.GenerationResult{
		Raw:      resp.Content,
		Sections: extracted.Sections,
		Tier:     extracted.Tier.String(),
		Parsed:   extracted.Found(),
		CacheHit: resp.CacheHit,
	}, nil
}

func (s *DrinkService) checkAge(ctx context.Context, userID string) error {
	if userID == "" {
		return common.ErrAgeRestricted
	}
	verified, err := s.profiles.AgeVerified(ctx, userID)
	if err != nil {
		return err
	}
	if !verified {
		return common.ErrAgeRestricted
	}
	return nil
}
