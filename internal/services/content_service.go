package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"dairy-backend/internal/cache"
	"dairy-backend/internal/models"
	"dairy-backend/internal/repositories"
)

const contentCacheTTL = 10 * time.Minute

// ContentService serves the public marketing site blocks and the
// admin-editable system settings behind them.
type ContentService struct {
	ContentRepo *repositories.SiteContentRepository
	SettingRepo *repositories.SystemSettingRepository
}

func NewContentService(contentRepo *repositories.SiteContentRepository, settingRepo *repositories.SystemSettingRepository) *ContentService {
	return &ContentService{
		ContentRepo: contentRepo,
		SettingRepo: settingRepo,
	}
}

// PublicContent returns every content block, cached in Redis since the
// public site hits this on every page load.
func (s *ContentService) PublicContent(ctx context.Context) ([]*models.SiteContent, error) {
	if data, ok := cache.GetCached(ctx, "content:all"); ok {
		var contents []*models.SiteContent
		if err := json.Unmarshal(data, &contents); err == nil {
			return contents, nil
		}
	}

	contents, err := s.ContentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(contents); err == nil {
		cache.SetCached(ctx, "content:all", data, contentCacheTTL)
	}
	return contents, nil
}

func (s *ContentService) GetContent(ctx context.Context, key string) (*models.SiteContent, error) {
	return s.ContentRepo.Get(ctx, key)
}

func (s *ContentService) UpdateContent(ctx context.Context, key, value string) (*models.SiteContent, error) {
	content, err := s.ContentRepo.Upsert(ctx, key, value)
	if err != nil {
		return nil, err
	}
	cache.InvalidateContentCaches(ctx)
	return content, nil
}

// RecordVisit bumps the visitor counter and returns the new total.
func (s *ContentService) RecordVisit(ctx context.Context) int64 {
	return cache.IncrementVisitors(ctx)
}

func (s *ContentService) VisitorCount(ctx context.Context) int64 {
	return cache.VisitorCount(ctx)
}

// ListSettings returns all system settings for the admin screen.
func (s *ContentService) ListSettings(ctx context.Context) ([]*models.SystemSetting, error) {
	return s.SettingRepo.List(ctx)
}

func (s *ContentService) UpdateSetting(ctx context.Context, key, value string) (*models.SystemSetting, error) {
	setting, err := s.SettingRepo.Set(ctx, key, value)
	if err != nil {
		return nil, err
	}
	cache.InvalidateSettingCaches(ctx)
	return setting, nil
}

// SettingBool reads a boolean setting with a fallback.
func (s *ContentService) SettingBool(ctx context.Context, key string, fallback bool) bool {
	raw := s.SettingRepo.GetValue(ctx, key, strconv.FormatBool(fallback))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
