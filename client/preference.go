package client

import (
	"context"

	"fundiq/models"

	"go.uber.org/zap"
)

// PreferenceService handles per-firm evaluation preferences. This is the
// single place the two historical backend payload shapes are normalized;
// everything past this boundary sees one canonical models.Preference.
type PreferenceService struct {
	Client *Client
	Store  Store
	Logger *zap.Logger

	// DefaultFirmID is used when a call passes an empty firm ID. Injected
	// configuration, not a hard-coded literal.
	DefaultFirmID string
}

func NewPreferenceService(c *Client, store Store, defaultFirmID string, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{Client: c, Store: store, DefaultFirmID: defaultFirmID, Logger: logger}
}

func (s *PreferenceService) firm(firmID string) string {
	if firmID == "" {
		return s.DefaultFirmID
	}
	return firmID
}

// GetPreferences fetches a firm's raw preference payload.
func (s *PreferenceService) GetPreferences(ctx context.Context, firmID string) ApiResponse {
	return s.Client.Get(ctx, "/api/preferences/"+s.firm(firmID))
}

// SavePreferences creates or updates a firm's preferences.
func (s *PreferenceService) SavePreferences(ctx context.Context, firmID string, pref models.Preference) ApiResponse {
	return s.Client.Post(ctx, "/api/preferences/"+s.firm(firmID), pref)
}

// GetNormalizedPreferences fetches and folds whichever payload shape the
// backend emitted into the canonical form. (nil, true) means the fetch
// succeeded but no preference exists yet.
func (s *PreferenceService) GetNormalizedPreferences(ctx context.Context, firmID string) (*models.Preference, bool) {
	result := s.GetPreferences(ctx, firmID)
	if !result.Success {
		return nil, false
	}
	pref, err := models.NormalizePreference(result.Data)
	if err != nil {
		s.Logger.Warn("Failed to normalize preference payload", zap.Error(err))
		return nil, false
	}
	return pref, true
}

// IsCustomEvaluationEnabled reports whether the firm has custom
// evaluations switched on, regardless of payload shape.
func (s *PreferenceService) IsCustomEvaluationEnabled(ctx context.Context, firmID string) bool {
	pref, ok := s.GetNormalizedPreferences(ctx, firmID)
	return ok && pref != nil && pref.UseCustomEval
}

// GetPreferenceID returns the firm ID when custom evaluation is enabled,
// "" otherwise.
func (s *PreferenceService) GetPreferenceID(ctx context.Context, firmID string) string {
	if s.IsCustomEvaluationEnabled(ctx, firmID) {
		return s.firm(firmID)
	}
	return ""
}

// UpdateStore synchronizes the selectedPreference key with the enabled
// flag: set when enabled with a known ID, removed otherwise.
func (s *PreferenceService) UpdateStore(pref models.Preference, enabled bool) {
	if enabled && pref.ID != "" {
		if err := s.Store.Set(SelectedPreferenceKey, pref.ID); err != nil {
			s.Logger.Warn("Failed to store selected preference", zap.Error(err))
		}
		return
	}
	if err := s.Store.Delete(SelectedPreferenceKey); err != nil {
		s.Logger.Warn("Failed to remove selected preference", zap.Error(err))
	}
}

// ToggleCustomEvaluation flips the flag, saves, and keeps the store in
// sync, adopting the ID the backend assigned when one comes back.
func (s *PreferenceService) ToggleCustomEvaluation(ctx context.Context, firmID string, enabled bool, current models.Preference) ApiResponse {
	updated := current
	updated.UseCustomEval = enabled

	result := s.SavePreferences(ctx, firmID, updated)
	if !result.Success {
		return result
	}

	s.UpdateStore(updated, enabled)

	if enabled {
		if saved, err := models.NormalizePreference(result.Data); err == nil && saved != nil && saved.ID != "" {
			updated.ID = saved.ID
			s.UpdateStore(updated, enabled)
		}
	}

	return result
}
