package api

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/intentflow/resolver/pkg/feedback"
	"github.com/intentflow/resolver/pkg/intent"
)

// submitFeedbackHandler handles POST /feedback.
func (s *Server) submitFeedbackHandler(c *echo.Context) error {
	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	notes := req.Notes
	if req.CorrectIntent != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += "correct_intent: " + req.CorrectIntent
	}

	receipt, err := s.feedback.Submit(c.Request().Context(), feedback.SubmitInput{
		RequestID:      req.RequestID,
		UserCorrection: req.UserCorrection,
		WasSuccessful:  req.WasSuccessful,
		Notes:          notes,
	})
	if err != nil {
		return mapServiceError(err)
	}

	if s.metrics != nil {
		s.metrics.ObserveFeedback(string(receipt.Action))
	}

	return c.JSON(http.StatusOK, FeedbackResponse{
		Success:        true,
		RequestID:      req.RequestID,
		ActionTaken:    string(receipt.Action),
		UserCorrection: req.UserCorrection,
		Message:        feedbackMessage(receipt.Action),
		LearningStatus: learningStatusFrom(receipt.Stats),
		Timestamp:      time.Now(),
	})
}

// feedbackStatsHandler handles GET /feedback/stats.
func (s *Server) feedbackStatsHandler(c *echo.Context) error {
	stats := s.stats.Snapshot()
	return c.JSON(http.StatusOK, StatsResponse{
		LearningStatusResponse: learningStatusFrom(stats),
		Timestamp:              time.Now(),
	})
}

// reviewQueueHandler handles GET /feedback/review-queue.
func (s *Server) reviewQueueHandler(c *echo.Context) error {
	pending := s.reviewQueue.ListPending()
	items := make([]ReviewItemResponse, len(pending))
	for i, it := range pending {
		items[i] = ReviewItemResponse{
			ItemID:           it.ItemID,
			RequestID:        it.RequestID,
			OriginalInput:    it.OriginalInput,
			ResolvedIntentID: it.ResolvedIntentID,
			UserCorrection:   it.UserCorrection,
			ConfidenceAtTime: it.ConfidenceAtTime,
			CreatedAt:        it.CreatedAt,
			Status:           string(it.Status),
			Notes:            it.Notes,
		}
	}

	return c.JSON(http.StatusOK, ReviewQueueResponse{
		PendingReviews: len(items),
		Items:          items,
	})
}

// resolveReviewItemHandler handles POST /feedback/review-queue/{item_id}/resolve.
func (s *Server) resolveReviewItemHandler(c *echo.Context) error {
	itemID := c.Param("item_id")
	if itemID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "item_id is required")
	}

	if err := s.reviewQueue.MarkReviewed(c.Request().Context(), itemID); err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, ReviewItemResolvedResponse{
		ItemID:  itemID,
		Status:  "reviewed",
		Message: "review item marked as reviewed",
	})
}

func feedbackMessage(action feedback.Action) string {
	switch action {
	case feedback.ActionLoggedForLearning:
		return "feedback recorded and reinforced in memory"
	case feedback.ActionQueuedForReview:
		return "feedback queued for human review"
	case feedback.ActionLoggedWithoutMemory:
		return "feedback recorded without a matching memory entry"
	default:
		return "feedback recorded"
	}
}

func learningStatusFrom(s intent.LearningStats) LearningStatusResponse {
	return LearningStatusResponse{
		TotalFeedbacks:     s.TotalFeedbacks,
		CorrectFeedbacks:   s.CorrectFeedbacks,
		IncorrectFeedbacks: s.IncorrectFeedbacks,
		LastUpdate:         s.LastUpdate,
	}
}
