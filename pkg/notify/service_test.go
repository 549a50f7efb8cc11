package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewService_NilWhenUnconfigured(t *testing.T) {
	assert.Nil(t, NewService(ServiceConfig{}))
	assert.Nil(t, NewService(ServiceConfig{Token: "xoxb-x"}))
	assert.Nil(t, NewService(ServiceConfig{Channel: "C123"}))
}

func TestService_NotifyReviewItem_NilServiceIsNoop(t *testing.T) {
	var s *Service
	assert.NotPanics(t, func() {
		s.NotifyReviewItem(context.Background(), ReviewItemInput{ItemID: "item-1"})
	})
}

func TestBuildReviewItemMessage_IncludesCorrectionAndLink(t *testing.T) {
	blocks := BuildReviewItemMessage(ReviewItemInput{
		ItemID:           "item-1",
		ResolvedIntentID: "book_flight",
		OriginalInput:    "take me somewhere",
		UserCorrection:   "navigate_to_gate",
	}, "https://dashboard.example.com")

	// header, input, correction, action block
	assert.Len(t, blocks, 4)
}

func TestBuildReviewItemMessage_NoDashboardOmitsAction(t *testing.T) {
	blocks := BuildReviewItemMessage(ReviewItemInput{
		ItemID:           "item-1",
		ResolvedIntentID: "book_flight",
		OriginalInput:    "take me somewhere",
	}, "")

	assert.Len(t, blocks, 2)
}
