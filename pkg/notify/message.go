package notify

import (
	"fmt"

	goslack "github.com/slack-go/slack"
)

const maxBlockTextLength = 2900

// BuildReviewItemMessage creates Block Kit blocks announcing a new Review
// Queue entry (spec.md §4.7: negative feedback routes here instead of to
// Fast Memory).
func BuildReviewItemMessage(input ReviewItemInput, dashboardURL string) []goslack.Block {
	headerText := fmt.Sprintf(":warning: *New review item* — resolved as `%s`", input.ResolvedIntentID)
	blocks := []goslack.Block{
		goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, headerText, false, false),
			nil, nil,
		),
		goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("*Input:*\n%s", truncateForSlack(input.OriginalInput)), false, false),
			nil, nil,
		),
	}

	if input.UserCorrection != "" {
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("*User correction:*\n%s", truncateForSlack(input.UserCorrection)), false, false),
			nil, nil,
		))
	}

	if dashboardURL != "" {
		url := fmt.Sprintf("%s/review-queue/%s", dashboardURL, input.ItemID)
		btn := goslack.NewButtonBlockElement("", "", goslack.NewTextBlockObject(goslack.PlainTextType, "Open Review Queue", false, false))
		btn.URL = url
		blocks = append(blocks, goslack.NewActionBlock("", btn))
	}

	return blocks
}

func truncateForSlack(text string) string {
	if len(text) <= maxBlockTextLength {
		return text
	}
	return text[:maxBlockTextLength] + "\n\n_... (truncated — see review queue)_"
}
