package personalization

// Tier bounds. Tier 1 means nothing is known beyond the user's own signup;
// tier 4 unlocks the most specific templates.
const (
    MinTier = 1
    MaxTier = 4
)

// CalculateTier maps available data volume to a personalization tier.
// Branches are evaluated top-down and the first match wins, so a user with
// plenty of insights but no partner onboarding still reaches tier 4.
func CalculateTier(hasPartnerOnboarding bool, insightsCount, answersCount int) int {
    switch {
    case insightsCount >= 5 || answersCount >= 30:
        return 4
    case insightsCount >= 1 || answersCount >= 10:
        return 3
    case hasPartnerOnboarding:
        return 2
    default:
        return 1
    }
}
