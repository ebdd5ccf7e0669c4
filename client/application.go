package client

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// ListParams filters and paginates the applications list.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
}

// ApplicationService is a typed pass-through over the relay's application
// endpoints. No response shaping happens here beyond the envelope.
type ApplicationService struct {
	Client *Client
	Logger *zap.Logger
}

func NewApplicationService(c *Client, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{Client: c, Logger: logger}
}

// GetApplication fetches a single application by ID.
func (s *ApplicationService) GetApplication(ctx context.Context, id string) ApiResponse {
	result := s.Client.Get(ctx, "/api/application/"+id)
	if !result.Success {
		s.Logger.Warn("Failed to fetch application", zap.String("id", id), zap.String("error", result.Error))
	}
	return result
}

// GetApplications fetches the list with optional filters.
func (s *ApplicationService) GetApplications(ctx context.Context, params ListParams) ApiResponse {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}

	endpoint := "/api/applications"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return s.Client.Get(ctx, endpoint)
}

// CreateApplication submits a new application.
func (s *ApplicationService) CreateApplication(ctx context.Context, application interface{}) ApiResponse {
	return s.Client.Post(ctx, "/api/applications", application)
}

// UpdateApplication replaces an application's editable data.
func (s *ApplicationService) UpdateApplication(ctx context.Context, id string, application interface{}) ApiResponse {
	return s.Client.Put(ctx, "/api/application/"+id, application)
}

// DeleteApplication removes an application.
func (s *ApplicationService) DeleteApplication(ctx context.Context, id string) ApiResponse {
	return s.Client.Delete(ctx, "/api/application/"+id)
}

// TriggerAction starts a backend job (extract, enhance, evaluate) for an
// application. For evaluations the selected preference rides along when
// one is stored.
func (s *ApplicationService) TriggerAction(ctx context.Context, store Store, id, action string) ApiResponse {
	query := url.Values{}
	query.Set("action", action)
	if action == "evaluate" && store != nil {
		if prefID, ok := store.Get(SelectedPreferenceKey); ok && prefID != "" {
			query.Set("preferences_id", prefID)
		}
	}
	return s.Client.Post(ctx, "/api/application/"+id+"?"+query.Encode(), nil)
}

// GetDeck resolves the signed URL for an application's pitch deck.
func (s *ApplicationService) GetDeck(ctx context.Context, id, attachmentID string) ApiResponse {
	endpoint := "/api/applications/" + id + "/deck"
	if attachmentID != "" {
		endpoint += "?attachment_id=" + url.QueryEscape(attachmentID)
	}
	return s.Client.Get(ctx, endpoint)
}
