package personalization

import (
    "strings"
    "time"
)

// Placeholder tokens recognized by Interpolate, in replacement priority order.
const (
    tokenPartnerName      = "{partner_name}"
    tokenFavoriteActivity = "{favorite_activity}"
    tokenMentionedInterest = "{mentioned_interest}"
    tokenFavoriteCuisine  = "{favorite_cuisine}"
    tokenSeason           = "{season}"
)

// Interpolate fills a template's placeholder tokens from the context.
// {partner_name} always resolves (falling back to "your partner"); the other
// tokens follow a fallback chain from explicit onboarding data to extracted
// keywords. A token with no resolvable value is left verbatim in the output —
// callers see the raw placeholder rather than an error. Total: never fails.
func Interpolate(text string, ctx *Context, now time.Time) string {
    text = strings.ReplaceAll(text, tokenPartnerName, ctx.PartnerName())

    for _, field := range []string{"favorite_activity", "mentioned_interest", "favorite_cuisine"} {
        token := "{" + field + "}"
        if !strings.Contains(text, token) {
            continue
        }
        if value := resolveField(field, ctx); value != "" {
            text = strings.ReplaceAll(text, token, value)
        }
    }

    text = strings.ReplaceAll(text, tokenSeason, string(SeasonOf(now)))

    return text
}

// resolveField resolves one placeholder field through its fallback chain.
// Returns "" when nothing in the context can supply a value. Shared with the
// scorer's required-data factor so "would resolve" and "did resolve" agree.
func resolveField(field string, ctx *Context) string {
    switch field {
    case "favorite_activity":
        if acts := ctx.Partner.WantsNeeds.FavoriteActivities; len(acts) > 0 {
            return acts[0]
        }
        if kw, ok := ctx.FirstKeyword(CategoryActivities); ok {
            return kw
        }
    case "mentioned_interest":
        if kw, ok := ctx.FirstKeyword(CategoryInterests); ok {
            return kw
        }
    case "favorite_cuisine":
        if cuisines := ctx.Partner.WantsNeeds.FavoriteCuisines; len(cuisines) > 0 {
            return cuisines[0]
        }
        if kw, ok := ctx.FirstKeyword(CategoryFoods); ok {
            return kw
        }
    case "partner_name":
        return ctx.PartnerName()
    }
    return ""
}
