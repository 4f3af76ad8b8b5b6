// internal/notification/templates.go

package notifications

import "fmt"

// DefaultCopy returns the stock title and body for a prompt type, filled in
// from the data map. Callers that compose their own copy (the suggestion
// generator does) skip this entirely.
func DefaultCopy(notificationType NotificationType, data NotificationData) (title, body string) {
	partner := stringValue(data, "partner_name", "your partner")

	switch notificationType {
	case TypeCheckIn:
		title = "A moment for you two"
		body = fmt.Sprintf("How are things with %s today? A quick check-in goes a long way.", partner)

	case TypeCelebration:
		milestone := stringValue(data, "milestone", "a milestone")
		title = "Worth celebrating! 🎉"
		body = fmt.Sprintf("You and %s just hit %s. Take a second to enjoy it together.", partner, milestone)

	case TypeReminder:
		what := stringValue(data, "reminder", "something you planned")
		title = "Gentle reminder"
		body = fmt.Sprintf("You wanted to remember: %s", truncate(what, 100))

	case TypeSuggestion:
		title = "An idea for this week"
		body = fmt.Sprintf("We found something %s might love. Take a look when you have a minute.", partner)

	default:
		title = "Tandem"
		body = "You have a new notification"
	}

	return title, body
}

func stringValue(data NotificationData, key, defaultValue string) string {
	if val, ok := data[key]; ok {
		if strVal, ok := val.(string); ok && strVal != "" {
			return strVal
		}
	}
	return defaultValue
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
