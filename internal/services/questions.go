package services

import (
	"github.com/kalagato/valuebot-backend/internal/models"
)

// Conversation texts. The greeting and decline texts mirror the hosted
// bot copy; overridable via env in main if needed later.
const (
	GreetingText = "Hi, I am Kalagato AI Agent. Are you interested in selling your app?"
	ListingText  = "Great! Where is your app listed?"
	DeclineText  = "Thanks — if you have any queries contact us on aman@kalagato.co"
	ThankYouText = "✅ Thank you! We saved your details and emailed your valuation."
	RestartText  = "❌ Something went wrong with your session. Please send any message to start over."
)

// Domain markers for store link validation
const (
	AppStoreDomain  = "apps.apple.com"
	PlayStoreDomain = "play.google.com"
)

// RevenueChoices maps the numeric selectors of the revenue-source question
// to canonical labels.
var RevenueChoices = map[string]string{
	"1": "IAP",
	"2": "Subscription",
	"3": "Ad",
}

var appStoreLinkQuestion = models.Question{
	Key:    models.AnswerAppStoreLink,
	Prompt: "Please share your App Store link (https://apps.apple.com/...)",
	Kind:   models.KindAppStoreURL,
}

var playStoreLinkQuestion = models.Question{
	Key:    models.AnswerPlayStoreLink,
	Prompt: "Please share your Play Store link (https://play.google.com/...)",
	Kind:   models.KindPlayStoreURL,
}

// questionTail is the fixed part of every flow, appended after the
// listing-dependent link questions.
var questionTail = []models.Question{
	{
		Key:    models.AnswerRevenue,
		Prompt: "Last 12 months revenue (numbers only, USD)",
		Kind:   models.KindNumber,
	},
	{
		Key:    models.AnswerMarketingCost,
		Prompt: "Last 12 months marketing cost (numbers only, USD)",
		Kind:   models.KindNumber,
	},
	{
		Key:    models.AnswerServerCost,
		Prompt: "Last 12 months server cost (numbers only, USD)",
		Kind:   models.KindNumber,
	},
	{
		Key:    models.AnswerProfit,
		Prompt: "Last 12 months profit (numbers only, USD)",
		Kind:   models.KindNumber,
	},
	{
		Key:     models.AnswerRevenueType,
		Prompt:  "Which revenue sources? Reply with numbers separated by comma:\n1. IAP\n2. Subscription\n3. Ad (e.g. '1,3')",
		Kind:    models.KindMultiChoice,
		Choices: RevenueChoices,
	},
	{
		Key:    models.AnswerEmail,
		Prompt: "Your email address (we will send valuation there)",
		Kind:   models.KindEmail,
	},
	{
		Key:    models.AnswerPhone,
		Prompt: "Phone number (optional). Reply 'skip' to skip.",
		Kind:   models.KindPhoneOptional,
	},
}

// BuildQuestionFlow returns the ordered question sequence for a listing
// choice. The sequence is computed once per session and never changes
// afterwards.
func BuildQuestionFlow(listing models.Listing) []models.Question {
	var flow []models.Question

	if listing == models.ListingAppStore || listing == models.ListingBoth {
		flow = append(flow, appStoreLinkQuestion)
	}
	if listing == models.ListingPlayStore || listing == models.ListingBoth {
		flow = append(flow, playStoreLinkQuestion)
	}

	flow = append(flow, questionTail...)
	return flow
}
