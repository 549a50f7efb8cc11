package notify

import (
	"context"
	"log/slog"
	"time"
)

// ServiceConfig holds the parameters needed to construct a Service.
type ServiceConfig struct {
	Token        string
	Channel      string
	DashboardURL string
}

// ReviewItemInput contains the data needed to announce a new Review Queue entry.
type ReviewItemInput struct {
	ItemID           string
	ResolvedIntentID string
	OriginalInput    string
	UserCorrection   string
	ConfidenceAtTime float64
}

// Service handles Slack notification delivery.
// Nil-safe: all methods are no-ops when service is nil, matching the
// "Service is a no-op when unconfigured" pattern.
type Service struct {
	client       *Client
	dashboardURL string
	logger       *slog.Logger
}

// NewService creates a new Slack notification service.
// Returns nil if Token or Channel is empty.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Token == "" || cfg.Channel == "" {
		return nil
	}
	return &Service{
		client:       NewClient(cfg.Token, cfg.Channel),
		dashboardURL: cfg.DashboardURL,
		logger:       slog.Default().With("component", "notify-service"),
	}
}

// NewServiceWithClient creates a Service backed by a pre-built Client.
// Useful for testing against a mock API server.
func NewServiceWithClient(client *Client, dashboardURL string) *Service {
	return &Service{
		client:       client,
		dashboardURL: dashboardURL,
		logger:       slog.Default().With("component", "notify-service"),
	}
}

// NotifyReviewItem announces a newly appended Review Queue entry.
// Fail-open: errors are logged, never returned, since a failed notification
// must not block the feedback write it follows.
func (s *Service) NotifyReviewItem(ctx context.Context, input ReviewItemInput) {
	if s == nil {
		return
	}

	blocks := BuildReviewItemMessage(input, s.dashboardURL)
	if err := s.client.PostMessage(ctx, blocks, 5*time.Second); err != nil {
		s.logger.Error("Failed to send review item notification",
			"item_id", input.ItemID,
			"error", err)
	}
}
