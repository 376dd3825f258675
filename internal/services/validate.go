package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kalagato/valuebot-backend/internal/models"
)

var (
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	choiceSplitter    = regexp.MustCompile(`[,\s]+`)
	currencyStripper  = strings.NewReplacer("$", "", "€", "", "£", "", "₹", "", ",", "", " ", "")
	listingNormalizer = strings.NewReplacer("-", " ", "_", " ")
)

// ParseNumber parses a user-supplied amount. Thousands separators and
// common currency symbols are stripped before parsing; infinities and NaN
// are rejected.
func ParseNumber(val string) (float64, bool) {
	cleaned := currencyStripper.Replace(strings.TrimSpace(val))
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// IsValidLink reports whether val looks like an http(s) URL.
func IsValidLink(val string) bool {
	return strings.HasPrefix(val, "http://") || strings.HasPrefix(val, "https://")
}

// IsValidEmail checks the basic local@domain.tld shape: one @, a dot after it.
func IsValidEmail(val string) bool {
	return emailPattern.MatchString(val)
}

// ParseMultiChoice resolves a reply like "1,3" or "ad, iap" against a
// selector→label mapping. Tokens may be numeric selectors or
// case-insensitive label names. Labels are deduplicated keeping first
// occurrence order.
func ParseMultiChoice(val string, choices map[string]string) []string {
	val = strings.ToLower(strings.TrimSpace(val))
	if val == "" {
		return nil
	}

	var selected []string
	for _, part := range choiceSplitter.Split(val, -1) {
		if part == "" {
			continue
		}
		if label, ok := choices[part]; ok {
			selected = append(selected, label)
			continue
		}
		for _, label := range choices {
			if part == strings.ToLower(label) {
				selected = append(selected, label)
				break
			}
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, label := range selected {
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}

// MatchListing maps free-form user phrasing ("play", "App Store", "both",
// button ids like "play_store") onto a listing choice.
func MatchListing(val string) (models.Listing, bool) {
	v := listingNormalizer.Replace(strings.ToLower(strings.TrimSpace(val)))
	switch {
	case v == "":
		return "", false
	case strings.Contains(v, "both"):
		return models.ListingBoth, true
	case strings.Contains(v, "play"):
		return models.ListingPlayStore, true
	case strings.Contains(v, "app") || strings.Contains(v, "apple") || strings.Contains(v, "ios"):
		return models.ListingAppStore, true
	}
	return "", false
}

// ValidateAnswer checks input against the question's kind and returns the
// normalized value to store. On failure it returns a user-facing error
// message and ok=false; the caller re-asks the same question.
func ValidateAnswer(q models.Question, input string) (normalized string, errMsg string, ok bool) {
	value := strings.TrimSpace(input)

	switch q.Kind {
	case models.KindText:
		if value == "" {
			return "", "❌ Please send a text answer.", false
		}
		return value, "", true

	case models.KindNumber:
		if _, valid := ParseNumber(value); !valid {
			return "", "❌ Please send a numeric value (numbers only).", false
		}
		return value, "", true

	case models.KindURL:
		if !IsValidLink(value) {
			return "", "❌ Please send a valid URL starting with http:// or https://", false
		}
		return value, "", true

	case models.KindAppStoreURL:
		if !IsValidLink(value) {
			return "", "❌ Please send a valid URL starting with http:// or https://", false
		}
		if !strings.Contains(value, AppStoreDomain) {
			return "", "❌ That doesn't look like an App Store link (" + AppStoreDomain + ").", false
		}
		return value, "", true

	case models.KindPlayStoreURL:
		if !IsValidLink(value) {
			return "", "❌ Please send a valid URL starting with http:// or https://", false
		}
		if !strings.Contains(value, PlayStoreDomain) {
			return "", "❌ That doesn't look like a Play Store link (" + PlayStoreDomain + ").", false
		}
		return value, "", true

	case models.KindEmail:
		if !IsValidEmail(value) {
			return "", "❌ Please send a valid email address.", false
		}
		return value, "", true

	case models.KindPhoneOptional:
		if strings.EqualFold(value, "skip") {
			return "", "", true
		}
		return value, "", true

	case models.KindMultiChoice:
		selected := ParseMultiChoice(value, q.Choices)
		if len(selected) == 0 {
			return "", "❌ Please reply with numbers like '1' or '1,3' corresponding to the options.", false
		}
		return strings.Join(selected, ", "), "", true
	}

	return "", "❌ Please try again.", false
}
