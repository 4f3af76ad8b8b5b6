package personalization

import (
    "strings"
    "time"
)

// Reason builds up to two human-readable justifications for why a template
// was suggested, joined by "; ". It is presentation-only and reuses the same
// factor predicates as the scorer, so the wording tracks the score exactly.
func Reason(t Template, ctx *Context, now time.Time) string {
    name := ctx.PartnerName()
    var reasons []string

    if wishMatchCount(t, ctx) > 0 {
        reasons = append(reasons, "based on this week's wish")
    }
    if matchesPrimaryLanguage(t, ctx) || matchesSecondaryLanguage(t, ctx) {
        reasons = append(reasons, "speaks "+name+"'s love language")
    }
    if len(reasons) < 2 && keywordMatchCount(t, ctx) > 0 {
        reasons = append(reasons, "inspired by something "+name+" shared")
    }
    if len(reasons) < 2 && (matchesBudget(t, ctx) || matchesGiftTypePreference(t, ctx)) {
        reasons = append(reasons, "fits the gifts "+name+" responds to")
    }
    if len(reasons) < 2 && (matchesDateStyle(t, ctx) || matchesDateTypePreference(t, ctx)) {
        reasons = append(reasons, "matches "+name+"'s date style")
    }
    if len(reasons) < 2 && matchesSeason(t, now) {
        reasons = append(reasons, "good fit for "+string(SeasonOf(now)))
    }

    if len(reasons) == 0 {
        return "picked for you this week"
    }
    if len(reasons) > 2 {
        reasons = reasons[:2]
    }
    return strings.Join(reasons, "; ")
}
